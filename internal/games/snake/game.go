// Package snake implements the classic grid snake on the hub's scene
// contract: fixed-step movement whose cadence tightens as the score grows,
// buffered turns with reversal protection, and either solid or wrap-around
// board edges.
package snake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vkazanov/retrocade/internal/config"
	"github.com/vkazanov/retrocade/internal/core"
	"github.com/vkazanov/retrocade/internal/scene"
)

const (
	// Rows above the board: status line plus separator.
	hudRows = 2

	headRune = 'O'
	bodyRune = 'o'
	foodRune = '*'
)

// Direction is the snake's heading on the grid. The ordering makes the
// opposite direction a rotation by two.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

func (d Direction) delta() (int, int) {
	switch d {
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, -1
	}
}

func (d Direction) opposite() Direction {
	return (d + 2) % 4
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	default:
		return "unknown"
	}
}

// Point is a board cell.
type Point struct {
	X, Y int
}

// configPath stores the custom config path set via CLI.
var configPath string

// difficultyPreset stores the difficulty preset set via CLI.
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// Game implements the Snake scene. The simulation is a cell grid advanced
// on a move timer under the fixed timestep; only food placement consumes
// randomness, so a seed and an input script replay exactly.
type Game struct {
	runtime core.RuntimeConfig
	conf    config.SnakeConfig
	diff    *config.DifficultyManager

	rng   *rand.Rand
	clock *core.FixedTimestep
	input core.InputFrame

	boardW, boardH int
	offX, offY     int
	tooSmall       bool

	body    []Point // Head at index 0
	dir     Direction
	nextDir Direction // Buffered turn applied on the next move
	growing bool      // Skip the tail drop on the next move
	food    Point

	moveTimer float64
	ticks     int

	score    int
	best     int
	paused   bool
	gameOver bool
}

// New creates a new Snake instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "snake"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Snake"
}

// Init initializes or resets the game.
func (g *Game) Init(cfg core.RuntimeConfig) {
	g.runtime = cfg

	conf, err := config.LoadSnake(configPath)
	if err != nil {
		conf = config.DefaultSnakeConfig()
	}
	if difficultyPreset != "" {
		config.ApplySnakePreset(&conf, difficultyPreset)
	}
	g.conf = conf
	g.diff = config.NewDifficultyManager(conf.Difficulty)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	g.clock = core.NewFixedTimestep(tickRate)

	g.best = 0
	g.layoutBoard()
	g.restart()
}

// layoutBoard fits the configured board into the terminal, leaving room
// for the HUD and the border, and centers it.
func (g *Game) layoutBoard() {
	maxW := g.runtime.ScreenW - 2
	maxH := g.runtime.ScreenH - hudRows - 2
	if maxW < 8 || maxH < 6 {
		g.tooSmall = true
		return
	}
	g.tooSmall = false

	g.boardW = core.Min(g.conf.Board.Width, maxW)
	g.boardH = core.Min(g.conf.Board.Height, maxH)
	g.offX = (g.runtime.ScreenW - g.boardW) / 2
	g.offY = hudRows + 1
}

// restart rebuilds the session on the current board. The best score and
// the RNG stream carry over.
func (g *Game) restart() {
	g.score = 0
	g.paused = false
	g.gameOver = false
	g.ticks = 0
	g.moveTimer = 0

	if g.tooSmall {
		return
	}

	startLen := core.Max(1, core.Min(g.conf.Gameplay.StartLength, g.boardW-2))
	cy := g.boardH / 2
	cx := g.boardW / 2
	g.body = g.body[:0]
	for i := 0; i < startLen; i++ {
		g.body = append(g.body, Point{X: cx - i, Y: cy})
	}
	g.dir = DirRight
	g.nextDir = DirRight
	g.growing = false

	g.spawnFood()
	g.clock.Reset()
}

// spawnFood places food on a uniformly random empty cell. A board with no
// empty cell left parks the food off-board.
func (g *Game) spawnFood() {
	empty := make([]Point, 0, g.boardW*g.boardH)
	for y := 0; y < g.boardH; y++ {
		for x := 0; x < g.boardW; x++ {
			p := Point{X: x, Y: y}
			if !g.isBodyAt(p) {
				empty = append(empty, p)
			}
		}
	}
	if len(empty) == 0 {
		g.food = Point{X: -1, Y: -1}
		return
	}
	g.food = empty[g.rng.Intn(len(empty))]
}

// isBodyAt checks whether the snake occupies the given cell.
func (g *Game) isBodyAt(p Point) bool {
	for _, seg := range g.body {
		if seg == p {
			return true
		}
	}
	return false
}

// HandleInput stores this frame's input snapshot for the next Update.
func (g *Game) HandleInput(in core.InputFrame) {
	g.input = in
}

// Update advances the game by one real frame. Turns buffer at frame rate
// so a quick keystroke between moves is never lost; the move itself runs
// under the fixed timestep.
func (g *Game) Update(dt float64) {
	if g.input.JustPressed(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver && g.input.JustPressed(core.ActionRestart) {
		g.restart()
		return
	}
	if g.paused || g.gameOver || g.tooSmall {
		return
	}

	g.bufferTurn()
	g.clock.Update(dt, g.step, nil)
}

// bufferTurn records the latest turn request, refusing instant reversal
// against the direction the snake is actually traveling.
func (g *Game) bufferTurn() {
	cand := g.nextDir
	switch {
	case g.input.Pressed(core.ActionUp):
		cand = DirUp
	case g.input.Pressed(core.ActionDown):
		cand = DirDown
	case g.input.Pressed(core.ActionLeft):
		cand = DirLeft
	case g.input.Pressed(core.ActionRight):
		cand = DirRight
	}
	if cand != g.dir.opposite() {
		g.nextDir = cand
	}
}

// step is one fixed simulation tick: the snake advances whenever the move
// timer crosses the current cadence, which shrinks from the start interval
// toward the minimum as the score grows.
func (g *Game) step(dt float64) {
	g.ticks++
	g.moveTimer += dt

	interval := g.diff.Interval(g.conf.Speed.StartInterval, g.conf.Speed.MinInterval, g.score, g.ticks)
	if g.moveTimer < interval {
		return
	}
	g.moveTimer = 0
	g.advance()
}

// advance moves the snake one cell, handling walls, self collision, food
// and growth.
func (g *Game) advance() {
	g.dir = g.nextDir
	dx, dy := g.dir.delta()
	head := g.body[0]
	next := Point{X: head.X + dx, Y: head.Y + dy}

	if next.X < 0 || next.X >= g.boardW || next.Y < 0 || next.Y >= g.boardH {
		if g.conf.Gameplay.Walls {
			g.endGame()
			return
		}
		next.X = (next.X + g.boardW) % g.boardW
		next.Y = (next.Y + g.boardH) % g.boardH
	}

	// The tail cell is legal to enter unless this move grows, because it
	// vacates in the same move.
	checkLen := len(g.body)
	if !g.growing && checkLen > 0 {
		checkLen--
	}
	for i := 0; i < checkLen; i++ {
		if g.body[i] == next {
			g.endGame()
			return
		}
	}

	g.body = append([]Point{next}, g.body...)

	if next == g.food {
		g.score++
		if g.score > g.best {
			g.best = g.score
		}
		g.growing = true
		g.spawnFood()
	}

	if g.growing {
		g.growing = false
	} else if len(g.body) > 1 {
		g.body = g.body[:len(g.body)-1]
	}
}

// endGame is the terminal transition.
func (g *Game) endGame() {
	g.gameOver = true
}

// Render draws the board, snake, food, HUD and overlays into dst. The
// buffer arrives pre-cleared.
func (g *Game) Render(dst *core.Screen) {
	g.drawHUD(dst)

	if g.tooSmall {
		drawOverlay(dst, "Terminal too small", "Resize to continue")
		return
	}

	g.drawBorder(dst)

	if g.food.X >= 0 {
		dst.SetCell(g.offX+g.food.X, g.offY+g.food.Y, foodRune, core.ColorBrightRed)
	}
	for i, seg := range g.body {
		if i == 0 {
			dst.SetCell(g.offX+seg.X, g.offY+seg.Y, headRune, core.ColorBrightGreen)
		} else {
			dst.SetCell(g.offX+seg.X, g.offY+seg.Y, bodyRune, core.ColorGreen)
		}
	}

	switch {
	case g.paused:
		drawOverlay(dst, "PAUSED", "Press P to resume")
	case g.gameOver:
		drawOverlay(dst, "GAME OVER",
			fmt.Sprintf("Score %d   Best %d", g.score, g.best),
			"Press R to restart")
	}
}

// drawHUD renders the status row and separator above the board.
func (g *Game) drawHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" SNAKE   SCORE %d   BEST %d   LEN %d ", g.score, g.best, len(g.body))
	dst.DrawTextColored(1, 0, hud, core.ColorBrightWhite)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

// drawBorder frames the board: a solid box when walls kill, a dotted one
// when the edges wrap.
func (g *Game) drawBorder(dst *core.Screen) {
	frame := core.NewRect(g.offX-1, g.offY-1, g.boardW+2, g.boardH+2)
	if g.conf.Gameplay.Walls {
		dst.DrawBox(frame)
		return
	}
	for x := frame.X; x < frame.X+frame.W; x++ {
		dst.Set(x, frame.Y, '·')
		dst.Set(x, frame.Y+frame.H-1, '·')
	}
	for y := frame.Y; y < frame.Y+frame.H; y++ {
		dst.Set(frame.X, y, '·')
		dst.Set(frame.X+frame.W-1, y, '·')
	}
}

// drawOverlay draws a centered bordered box with one line per message.
func drawOverlay(dst *core.Screen, lines ...string) {
	w := dst.Width()
	h := dst.Height()

	boxW := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > boxW {
			boxW = n
		}
	}
	boxW += 4
	boxH := len(lines)*2 + 1
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	for i, line := range lines {
		x := boxX + (boxW-len([]rune(line)))/2
		dst.DrawText(x, boxY+1+i*2, line)
	}
}

// Cleanup releases scene resources. Snake holds none.
func (g *Game) Cleanup() {}

// Session reports the current session state.
func (g *Game) Session() core.SessionState {
	return core.SessionState{
		Score:     g.score,
		HighScore: g.best,
		Paused:    g.paused,
		GameOver:  g.gameOver,
	}
}

// Register the game with the scene registry.
func init() {
	scene.Register("snake", func() scene.Scene {
		return New()
	})
}
