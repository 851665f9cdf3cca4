package snake

import (
	"strings"
	"testing"

	"github.com/vkazanov/retrocade/internal/core"
)

const testDT = 1.0 / 60

// newTestGame builds a game with a hermetic home directory so config
// loading never touches the real user environment. The default board is
// 40x20, which fits an 80x24 terminal exactly.
func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	g := New()
	g.Init(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	return g
}

func frame(g *Game, dt float64, held, pressed []core.Action) {
	in := core.NewInputFrame()
	for _, a := range held {
		in.Hold(a)
	}
	for _, a := range pressed {
		in.Press(a)
	}
	g.HandleInput(in)
	g.Update(dt)
}

func TestInitLayout(t *testing.T) {
	g := newTestGame(t, 42)

	if g.tooSmall {
		t.Fatal("40x20 board flagged too small for 80x24")
	}
	if g.boardW != 40 || g.boardH != 20 {
		t.Errorf("board = %dx%d, want 40x20", g.boardW, g.boardH)
	}
	if g.offX != 20 || g.offY != 3 {
		t.Errorf("board origin = (%d,%d), want (20,3)", g.offX, g.offY)
	}
	if len(g.body) != 3 {
		t.Errorf("start length = %d, want 3", len(g.body))
	}
	head := g.body[0]
	if head.X != 20 || head.Y != 10 {
		t.Errorf("head = %+v, want board center", head)
	}
	if g.dir != DirRight || g.nextDir != DirRight {
		t.Errorf("initial heading = %v/%v, want right", g.dir, g.nextDir)
	}
	if g.isBodyAt(g.food) {
		t.Error("food spawned on the snake")
	}
	if g.food.X < 0 || g.food.X >= g.boardW || g.food.Y < 0 || g.food.Y >= g.boardH {
		t.Errorf("food off board: %+v", g.food)
	}
}

func TestDeterminism(t *testing.T) {
	script := func(g *Game) {
		for i := 0; i < 600; i++ {
			var held []core.Action
			switch {
			case i > 60 && i <= 120:
				held = append(held, core.ActionDown)
			case i > 120 && i <= 200:
				held = append(held, core.ActionLeft)
			case i > 200 && i <= 300:
				held = append(held, core.ActionUp)
			}
			frame(g, testDT, held, nil)
		}
	}

	g1 := newTestGame(t, 777)
	script(g1)
	snap1 := g1.Snapshot()

	g2 := newTestGame(t, 777)
	script(g2)
	snap2 := g2.Snapshot()

	if snap1.Hash() != snap2.Hash() {
		t.Errorf("runs diverged: hashes %d vs %d", snap1.Hash(), snap2.Hash())
	}
	if snap1.Score != snap2.Score {
		t.Errorf("scores diverged: %d vs %d", snap1.Score, snap2.Score)
	}
	if snap1.FoodX != snap2.FoodX || snap1.FoodY != snap2.FoodY {
		t.Errorf("food diverged: (%d,%d) vs (%d,%d)", snap1.FoodX, snap1.FoodY, snap2.FoodX, snap2.FoodY)
	}
}

func TestNoImmediateReversal(t *testing.T) {
	g := newTestGame(t, 1)

	// Heading right: a left press must not buffer.
	frame(g, 0, []core.Action{core.ActionLeft}, nil)
	if g.nextDir == DirLeft {
		t.Error("buffered a reversal from right to left")
	}

	// A perpendicular turn buffers fine.
	frame(g, 0, []core.Action{core.ActionDown}, nil)
	if g.nextDir != DirDown {
		t.Errorf("nextDir = %v, want down", g.nextDir)
	}

	// After the move applies, up is now the forbidden reversal.
	g.advance()
	if g.dir != DirDown {
		t.Fatalf("dir = %v, want down after move", g.dir)
	}
	frame(g, 0, []core.Action{core.ActionUp}, nil)
	if g.nextDir == DirUp {
		t.Error("buffered a reversal from down to up")
	}
}

func TestBufferedTurnAppliesOnMove(t *testing.T) {
	g := newTestGame(t, 2)
	head := g.body[0]

	frame(g, 0, []core.Action{core.ActionDown}, nil)
	g.advance()

	want := Point{X: head.X, Y: head.Y + 1}
	if g.body[0] != want {
		t.Errorf("head = %+v, want %+v", g.body[0], want)
	}
}

func TestFoodSpawnValidity(t *testing.T) {
	g := newTestGame(t, 999)

	for i := 0; i < 100; i++ {
		g.spawnFood()
		if g.isBodyAt(g.food) {
			t.Fatalf("food spawned on the snake at %+v", g.food)
		}
		if g.food.X < 0 || g.food.X >= g.boardW || g.food.Y < 0 || g.food.Y >= g.boardH {
			t.Fatalf("food off board: %+v", g.food)
		}
	}
}

func TestGrowthOnFood(t *testing.T) {
	g := newTestGame(t, 3)
	head := g.body[0]
	g.food = Point{X: head.X + 1, Y: head.Y}
	lenBefore := len(g.body)

	g.advance()

	if len(g.body) != lenBefore+1 {
		t.Errorf("length after food = %d, want %d", len(g.body), lenBefore+1)
	}
	if g.score != 1 {
		t.Errorf("score = %d, want 1", g.score)
	}
	if g.best != 1 {
		t.Errorf("best = %d, want 1", g.best)
	}
	if g.food == (Point{X: head.X + 1, Y: head.Y}) {
		t.Error("food did not respawn")
	}

	// The next move is a normal one: tail drops again.
	g.advance()
	if len(g.body) != lenBefore+1 {
		t.Errorf("length after follow-up move = %d, want %d", len(g.body), lenBefore+1)
	}
}

func TestWallCollisionKills(t *testing.T) {
	g := newTestGame(t, 4)
	if !g.conf.Gameplay.Walls {
		t.Fatal("default config should have solid walls")
	}

	// Head starts at x=20 heading right; 19 moves reach the last column.
	for i := 0; i < 19; i++ {
		g.advance()
		if g.gameOver {
			t.Fatalf("died early at move %d, head %+v", i+1, g.body[0])
		}
	}
	if g.body[0].X != g.boardW-1 {
		t.Fatalf("head x = %d, want %d", g.body[0].X, g.boardW-1)
	}

	g.advance()
	if !g.gameOver {
		t.Error("crossing the wall did not end the game")
	}
}

func TestWrapWhenWallsOff(t *testing.T) {
	g := newTestGame(t, 5)
	g.conf.Gameplay.Walls = false

	for i := 0; i < 20; i++ {
		g.advance()
	}
	if g.gameOver {
		t.Fatal("wrap mode killed the snake at the edge")
	}
	if g.body[0].X != 0 {
		t.Errorf("head x after wrap = %d, want 0", g.body[0].X)
	}
}

func TestSelfCollision(t *testing.T) {
	g := newTestGame(t, 6)
	g.food = Point{X: 9, Y: 9}

	// A 2x2 loop: the head re-enters the tail cell, which vacates in the
	// same move, so this is legal.
	g.body = []Point{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 2}}
	g.dir = DirUp
	g.nextDir = DirRight
	g.growing = false

	g.advance()
	if g.gameOver {
		t.Fatal("entering the vacating tail cell should be legal")
	}
	if g.body[0] != (Point{X: 3, Y: 2}) {
		t.Errorf("head = %+v, want the old tail cell", g.body[0])
	}

	// The same move while growing keeps the tail in place and kills.
	g2 := newTestGame(t, 6)
	g2.food = Point{X: 9, Y: 9}
	g2.body = []Point{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 2}}
	g2.dir = DirUp
	g2.nextDir = DirRight
	g2.growing = true

	g2.advance()
	if !g2.gameOver {
		t.Error("entering an occupied tail cell while growing should kill")
	}

	// Running into the body proper always kills: the head turns right
	// into a cell that is not the tail.
	g3 := newTestGame(t, 6)
	g3.food = Point{X: 9, Y: 9}
	g3.body = []Point{
		{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6},
		{X: 6, Y: 5}, {X: 7, Y: 5}, {X: 7, Y: 6},
	}
	g3.dir = DirUp
	g3.nextDir = DirRight
	g3.growing = false

	g3.advance()
	if !g3.gameOver {
		t.Error("running into the body did not end the game")
	}
}

func TestCadenceShrinksWithScore(t *testing.T) {
	stepsToMove := func(g *Game) int {
		head := g.body[0]
		for n := 1; n <= 100; n++ {
			g.step(testDT)
			if g.body[0] != head {
				return n
			}
		}
		t.Fatal("snake never moved")
		return 0
	}

	g := newTestGame(t, 7)

	// Fresh game: 0.14s cadence needs nine 1/60 steps.
	if got := stepsToMove(g); got != 9 {
		t.Errorf("steps per move at score 0 = %d, want 9", got)
	}

	// At the progression cap the cadence floors at 0.05s: three steps.
	g.score = 40
	g.moveTimer = 0
	if got := stepsToMove(g); got != 3 {
		t.Errorf("steps per move at max score = %d, want 3", got)
	}
}

func TestPauseFreezesBoard(t *testing.T) {
	g := newTestGame(t, 8)
	head := g.body[0]

	frame(g, testDT, nil, []core.Action{core.ActionPause})
	if !g.paused {
		t.Fatal("pause press did not pause")
	}
	for i := 0; i < 60; i++ {
		frame(g, testDT, nil, nil)
	}
	if g.body[0] != head {
		t.Error("snake moved while paused")
	}

	frame(g, testDT, nil, []core.Action{core.ActionPause})
	for i := 0; i < 12; i++ {
		frame(g, testDT, nil, nil)
	}
	if g.body[0] == head {
		t.Error("snake frozen after unpause")
	}
}

func TestRestartKeepsBest(t *testing.T) {
	g := newTestGame(t, 9)
	g.score = 7
	g.best = 7
	g.endGame()

	frame(g, testDT, nil, []core.Action{core.ActionRestart})

	if g.gameOver || g.score != 0 {
		t.Errorf("restart state: gameOver=%v score=%d", g.gameOver, g.score)
	}
	if len(g.body) != 3 {
		t.Errorf("restart length = %d, want 3", len(g.body))
	}
	if g.best != 7 {
		t.Errorf("best after restart = %d, want 7", g.best)
	}
	if s := g.Session(); s.HighScore != 7 || s.Score != 0 {
		t.Errorf("session = %+v", s)
	}
}

func TestRenderBoard(t *testing.T) {
	g := newTestGame(t, 10)
	scr := core.NewScreen(80, 24)
	g.Render(scr)

	if !strings.Contains(scr.Row(0), "SNAKE") || !strings.Contains(scr.Row(0), "SCORE 0") {
		t.Errorf("HUD row = %q", scr.Row(0))
	}
	if got := scr.Get(g.offX+g.body[0].X, g.offY+g.body[0].Y); got != headRune {
		t.Errorf("head cell = %q, want %q", got, headRune)
	}
	if got := scr.Get(g.offX+g.body[1].X, g.offY+g.body[1].Y); got != bodyRune {
		t.Errorf("body cell = %q, want %q", got, bodyRune)
	}
	if got := scr.Get(g.offX+g.food.X, g.offY+g.food.Y); got != foodRune {
		t.Errorf("food cell = %q, want %q", got, foodRune)
	}
	// Solid walls draw a box border.
	if got := scr.Get(g.offX-1, g.offY-1); got != '┌' {
		t.Errorf("border corner = %q, want box corner", got)
	}

	// Wrap mode swaps the border for a dotted frame.
	g.conf.Gameplay.Walls = false
	scr2 := core.NewScreen(80, 24)
	g.Render(scr2)
	if got := scr2.Get(g.offX-1, g.offY-1); got != '·' {
		t.Errorf("wrap border corner = %q, want dotted", got)
	}

	g.endGame()
	scr3 := core.NewScreen(80, 24)
	g.Render(scr3)
	if !strings.Contains(scr3.String(), "GAME OVER") {
		t.Error("game-over overlay missing")
	}
}

func TestTooSmallTerminal(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	g := New()
	g.Init(core.RuntimeConfig{ScreenW: 8, ScreenH: 5, TickRate: 60, Seed: 1})

	if !g.tooSmall {
		t.Fatal("8x5 terminal not flagged too small")
	}

	// Updates are inert; rendering shows the notice instead of a board.
	frame(g, 0.5, []core.Action{core.ActionRight}, nil)
	scr := core.NewScreen(80, 24)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Terminal too small") {
		t.Error("too-small notice missing")
	}
}
