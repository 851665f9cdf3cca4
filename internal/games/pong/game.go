// Package pong implements classic Pong against a CPU opponent on the
// hub's scene contract. Physics run in cells per second under the fixed
// timestep; the CPU paddle's skill interpolates upward over match time.
package pong

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vkazanov/retrocade/internal/config"
	"github.com/vkazanov/retrocade/internal/core"
	"github.com/vkazanov/retrocade/internal/scene"
)

// Court glyphs.
const (
	paddleRune = '█'
	ballRune   = '●'
	netRune    = '│'
)

// Speed gain per paddle hit, applied to the horizontal velocity until the
// configured cap.
const rallyAccel = 1.02

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

// Game implements the Pong scene. The court is the terminal cell grid
// itself: row 0 is the HUD, rows 1 and height-2 are the walls. Only the
// serve angle consumes randomness.
type Game struct {
	runtime core.RuntimeConfig
	conf    config.PongConfig
	diff    *config.DifficultyManager

	rng   *rand.Rand
	clock *core.FixedTimestep
	input core.InputFrame

	fieldW, fieldH float64
	paddleH        float64

	paddle1Y float64 // Player, left
	paddle2Y float64 // CPU, right

	ballX, ballY   float64
	ballVX, ballVY float64

	serving    bool
	serveTimer float64

	score1 int
	score2 int
	best   int
	winner int // 1 or 2 once the match ends
	ticks  int

	paused   bool
	gameOver bool
}

// New creates a new Pong instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "pong"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Pong"
}

// Init initializes or resets the game.
func (g *Game) Init(cfg core.RuntimeConfig) {
	g.runtime = cfg

	conf, err := config.LoadPong(configPath)
	if err != nil {
		conf = config.DefaultPongConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPongPreset(&conf, difficultyPreset)
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

	g.fieldW = float64(cfg.ScreenW)
	g.fieldH = float64(cfg.ScreenH)

	// The configured paddle height shrinks on small terminals.
	g.paddleH = float64(core.Clamp(cfg.ScreenH/5, 3, conf.Paddles.Height))

	g.best = 0
	g.restart()
}

// restart rebuilds the match. The best score and the RNG stream carry
// over.
func (g *Game) restart() {
	g.score1 = 0
	g.score2 = 0
	g.winner = 0
	g.ticks = 0
	g.paused = false
	g.gameOver = false

	center := g.fieldH / 2
	g.paddle1Y = center - g.paddleH/2
	g.paddle2Y = center - g.paddleH/2

	g.startServe(1)
	g.clock.Reset()
}

// startServe centers the ball and aims it at the given side, with a
// random vertical angle. The ball holds still for the serve delay.
func (g *Game) startServe(side int) {
	g.serving = true
	g.serveTimer = 0

	g.ballX = g.fieldW / 2
	g.ballY = g.fieldH / 2

	speed := g.conf.Physics.BallSpeed
	if side == 1 {
		g.ballVX = -speed
	} else {
		g.ballVX = speed
	}
	angle := (g.rng.Float64() - 0.5) * 0.6
	g.ballVY = speed * angle
}

// HandleInput stores this frame's input snapshot for the next Update.
func (g *Game) HandleInput(in core.InputFrame) {
	g.input = in
}

// Update advances the game by one real frame.
func (g *Game) Update(dt float64) {
	if g.input.JustPressed(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver && g.input.JustPressed(core.ActionRestart) {
		g.restart()
		return
	}
	if g.paused || g.gameOver {
		return
	}

	g.clock.Update(dt, g.step, nil)
}

// step is one fixed simulation tick. Paddles keep moving during the serve
// wait; the ball only flies once it is over.
func (g *Game) step(dt float64) {
	g.ticks++

	if g.serving {
		g.serveTimer += dt
		if g.serveTimer >= g.conf.Gameplay.ServeDelay {
			g.serving = false
		}
	}

	g.movePlayer(dt)
	g.moveCPU(dt)

	if !g.serving {
		g.moveBall(dt)
	}
}

// movePlayer applies held input to the left paddle.
func (g *Game) movePlayer(dt float64) {
	speed := g.conf.Physics.PaddleSpeed * dt
	if g.input.Pressed(core.ActionUp) {
		g.paddle1Y -= speed
	}
	if g.input.Pressed(core.ActionDown) {
		g.paddle1Y += speed
	}
	g.paddle1Y = core.ClampF(g.paddle1Y, 1, g.fieldH-g.paddleH-1)
}

// moveCPU tracks the ball with skill-limited speed. The skill level rises
// with match time between the configured bounds, and the paddle only
// chases while the ball is inbound. The deadband around the target stops
// end-of-travel jitter.
func (g *Game) moveCPU(dt float64) {
	skill := g.diff.Skill(g.conf.CPU.MinSkill, g.conf.CPU.MaxSkill, g.score1+g.score2, g.ticks)
	move := g.conf.Physics.PaddleSpeed * skill * dt

	target := g.ballY - g.paddleH/2
	diff := target - g.paddle2Y
	if g.ballVX > 0 && math.Abs(diff) > move {
		if diff > 0 {
			g.paddle2Y += move
		} else {
			g.paddle2Y -= move
		}
	}
	g.paddle2Y = core.ClampF(g.paddle2Y, 1, g.fieldH-g.paddleH-1)
}

// moveBall integrates the ball and resolves wall bounces, paddle hits
// with spin, and scoring.
func (g *Game) moveBall(dt float64) {
	g.ballX += g.ballVX * dt
	g.ballY += g.ballVY * dt

	if g.ballY <= 1 {
		g.ballY = 1
		g.ballVY = -g.ballVY
	}
	if g.ballY >= g.fieldH-2 {
		g.ballY = g.fieldH - 2
		g.ballVY = -g.ballVY
	}

	paddleW := float64(g.conf.Paddles.Width)
	p1X := float64(g.conf.Paddles.Offset)
	p2X := g.fieldW - float64(g.conf.Paddles.Offset) - paddleW

	if g.ballVX < 0 && g.ballX <= p1X+paddleW &&
		g.ballY >= g.paddle1Y && g.ballY <= g.paddle1Y+g.paddleH {
		g.ballX = p1X + paddleW
		g.bounceOffPaddle(g.paddle1Y)
	}
	if g.ballVX > 0 && g.ballX >= p2X &&
		g.ballY >= g.paddle2Y && g.ballY <= g.paddle2Y+g.paddleH {
		g.ballX = p2X - 1
		g.bounceOffPaddle(g.paddle2Y)
	}

	if g.ballX < 0 {
		g.awardPoint(2)
	} else if g.ballX > g.fieldW {
		g.awardPoint(1)
	}
}

// bounceOffPaddle reverses the ball with spin by hit position and the
// rally speed-up, bounded by the configured maximum.
func (g *Game) bounceOffPaddle(paddleY float64) {
	g.ballVX = -g.ballVX * rallyAccel

	hitPos := (g.ballY - paddleY) / g.paddleH
	g.ballVY += (hitPos - 0.5) * g.conf.Physics.SpinFactor

	maxSpeed := g.conf.Physics.MaxBallSpeed
	if math.Abs(g.ballVX) > maxSpeed {
		g.ballVX = math.Copysign(maxSpeed, g.ballVX)
	}
	if math.Abs(g.ballVY) > maxSpeed/2 {
		g.ballVY = math.Copysign(maxSpeed/2, g.ballVY)
	}
}

// awardPoint scores for one side and either ends the match at the win
// score or serves the next ball toward the scorer.
func (g *Game) awardPoint(side int) {
	if side == 1 {
		g.score1++
		if g.score1 > g.best {
			g.best = g.score1
		}
	} else {
		g.score2++
	}

	winScore := g.conf.Gameplay.WinScore
	if g.score1 >= winScore || g.score2 >= winScore {
		g.gameOver = true
		g.winner = side
		return
	}
	g.startServe(side)
}

// Render draws the court, paddles, ball, scores and overlays into dst.
// The buffer arrives pre-cleared.
func (g *Game) Render(dst *core.Screen) {
	centerX := dst.Width() / 2
	for y := 1; y < dst.Height()-1; y += 2 {
		dst.SetCell(centerX, y, netRune, core.ColorGray)
	}

	p1X := g.conf.Paddles.Offset
	p2X := dst.Width() - g.conf.Paddles.Offset - g.conf.Paddles.Width
	for i := 0; i < int(g.paddleH); i++ {
		dst.SetCell(p1X, int(g.paddle1Y)+i, paddleRune, core.ColorBrightCyan)
		dst.SetCell(p2X, int(g.paddle2Y)+i, paddleRune, core.ColorBrightMagenta)
	}

	// The ball blinks while a serve is pending.
	if !g.serving || int(g.serveTimer*6)%2 == 0 {
		dst.SetCell(int(g.ballX), int(g.ballY), ballRune, core.ColorBrightYellow)
	}

	dst.DrawTextColored(1, 0, "P1", core.ColorBrightCyan)
	dst.DrawTextColored(dst.Width()-4, 0, "CPU", core.ColorBrightMagenta)
	dst.DrawText(centerX-5, 0, fmt.Sprintf("%d", g.score1))
	dst.DrawText(centerX+4, 0, fmt.Sprintf("%d", g.score2))

	switch {
	case g.paused:
		drawMessageBox(dst, "PAUSED", "Press P to resume")
	case g.gameOver:
		title := "YOU WIN!"
		if g.winner == 2 {
			title = "CPU WINS!"
		}
		drawMessageBox(dst, title,
			fmt.Sprintf("%d - %d", g.score1, g.score2),
			"Press R to restart")
	}
}

// drawMessageBox draws a centered bordered box with one line per message.
func drawMessageBox(dst *core.Screen, lines ...string) {
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

// Cleanup releases scene resources. Pong holds none.
func (g *Game) Cleanup() {}

// Session reports the current session state. The player's side is the
// reported score.
func (g *Game) Session() core.SessionState {
	return core.SessionState{
		Score:     g.score1,
		HighScore: g.best,
		Paused:    g.paused,
		GameOver:  g.gameOver,
	}
}

// Register the game with the scene registry.
func init() {
	scene.Register("pong", func() scene.Scene {
		return New()
	})
}
