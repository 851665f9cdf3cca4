// Package invaders implements the Space Invaders game: a wave-driven enemy
// formation with adaptive difficulty, destructible shields, a bonus UFO
// lane, and particle/screen-shake feedback. Simulation runs in a fixed
// 800x600 logical field under a fixed timestep; the renderer projects to
// whatever cell grid the platform provides.
package invaders

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/vkazanov/retrocade/internal/config"
	"github.com/vkazanov/retrocade/internal/core"
	"github.com/vkazanov/retrocade/internal/scene"
)

// Logical playfield dimensions. All entity positions and speeds live in
// this space regardless of terminal size.
const (
	FieldWidth  = 800.0
	FieldHeight = 600.0
)

// Orchestrator tuning.
const (
	RespawnDelay      = 2.0 // Seconds between losing a ship and the next one appearing
	WaveCompleteDelay = 3.0 // Seconds the wave-cleared banner stays up
	WaveClearBonus    = 1000
	MaxPlayerBullets  = 2
	BaseDescent       = 20.0 // Formation drop per boundary reversal, before scaling
	FormationMargin   = 10.0 // Side padding that triggers a reversal
	UFORollInterval   = 1.0  // Seconds between saucer spawn rolls

	// One formation tick advances each enemy by Speed pixels.
	formationStepTime = 1.0

	// Chance per surviving bullet per step to drop a trail mote.
	trailChancePlayer = 0.3
	trailChanceEnemy  = 0.2

	popupLifetime = 1.0
)

// gameState is the orchestrator phase. The phase tag, not a nullable
// pointer, decides whether a player ship exists: the ship is non-nil
// exactly in statePlaying and stateWaveComplete.
type gameState int

const (
	statePlaying gameState = iota
	stateRespawning
	stateWaveComplete
	stateGameOver
)

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

// scorePopup is a floating bonus readout, spawned when the UFO dies.
type scorePopup struct {
	x, y float64
	text string
	age  float64
}

// Game is the Space Invaders orchestrator. It owns every entity collection
// and mediates all cross-entity interaction; entities never reference each
// other directly.
type Game struct {
	runtime core.RuntimeConfig
	conf    config.InvadersConfig

	// Gameplay RNG and cosmetic RNG are separate streams so feedback
	// (shake direction, spawn jitter) can run at render rate without
	// disturbing simulation determinism.
	rng   *rand.Rand
	fxRng *rand.Rand

	clock *core.FixedTimestep

	// attached is the platform's sound manager; snd is what the simulation
	// actually calls, nop when the config mutes audio.
	attached core.SoundTrigger
	snd      core.SoundTrigger

	input      core.InputFrame
	fireQueued bool // Latched fire press waiting for a fixed step to consume it

	state      gameState
	stateTimer float64

	player  *Player
	waves   *WaveManager
	bullets []*Bullet
	shields []*Shield
	ufo     *UFO

	enemyDir        float64 // +1 sweeping right, -1 left
	enemyMoveTimer  float64
	enemyShootTimer float64
	ufoTimer        float64
	animFrame       int // Formation sprite frame, flips every move tick

	particles *ParticleSystem
	shake     *ScreenShake
	popups    []scorePopup

	score     int
	lives     int
	highScore int
	hsPath    string
	hsDirty   bool
	paused    bool
	gameOver  bool
}

// New creates a new Space Invaders instance.
func New() *Game {
	return &Game{attached: core.NopSound{}, snd: core.NopSound{}}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "invaders"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Space Invaders"
}

// AttachSound wires the platform's sound manager. Init decides whether
// cues actually play based on the config's audio toggle.
func (g *Game) AttachSound(snd core.SoundTrigger) {
	if snd != nil {
		g.attached = snd
	}
}

// Init initializes or resets the game.
func (g *Game) Init(cfg core.RuntimeConfig) {
	g.runtime = cfg

	conf, err := config.LoadInvaders(configPath)
	if err != nil {
		conf = config.DefaultInvadersConfig()
	}
	if difficultyPreset != "" {
		config.ApplyInvadersPreset(&conf, difficultyPreset)
	}
	g.conf = conf

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))
	g.fxRng = rand.New(rand.NewSource(seed + 1))

	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	g.clock = core.NewFixedTimestep(tickRate)

	g.particles = NewParticleSystem(g.fxRng)
	g.particles.SetEnabled(conf.Effects.Particles)
	g.shake = NewScreenShake(g.fxRng)
	g.shake.SetEnabled(conf.Effects.Shake)

	g.snd = core.NopSound{}
	if conf.Effects.Audio {
		g.snd = g.attached
	}

	g.waves = NewWaveManager(conf.Gameplay.EnemyRows, conf.Gameplay.EnemyCols)

	g.hsPath = HighScorePath()
	g.highScore = LoadHighScore(g.hsPath)

	g.restart()
}

// restart rebuilds the session from wave one of the configured start.
func (g *Game) restart() {
	g.score = 0
	g.lives = g.conf.Gameplay.Lives
	g.paused = false
	g.gameOver = false
	g.hsDirty = false

	g.state = statePlaying
	g.stateTimer = 0
	g.fireQueued = false

	g.waves.StartWave(g.conf.Gameplay.StartWave)
	g.resetField()
	g.player = NewPlayer()

	g.particles.Clear()
	g.shake.Stop()
	g.popups = g.popups[:0]
	g.clock.Reset()
}

// resetField clears the transient battlefield for a fresh wave: bullets,
// saucer, shields, formation direction and the adaptive timers.
func (g *Game) resetField() {
	g.bullets = nil
	g.ufo = nil
	g.enemyDir = 1
	g.enemyMoveTimer = 0
	g.enemyShootTimer = 0
	g.ufoTimer = 0
	g.animFrame = 0

	spacing := (FieldWidth - ShieldCount*ShieldWidth) / (ShieldCount + 1)
	g.shields = g.shields[:0]
	for i := 0; i < ShieldCount; i++ {
		x := spacing + float64(i)*(ShieldWidth+spacing)
		g.shields = append(g.shields, NewShield(x, ShieldY))
	}
}

// HandleInput stores this frame's input snapshot for the next Update.
func (g *Game) HandleInput(in core.InputFrame) {
	g.input = in
}

// Update advances the game by one real frame. Meta actions (pause,
// restart) are edge-triggered per frame; everything else runs under the
// fixed timestep, with cosmetic feedback on the variable callback so it
// keeps animating through respawn and game-over freezes.
func (g *Game) Update(dt float64) {
	if g.input.JustPressed(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver && g.input.JustPressed(core.ActionRestart) {
		g.restart()
		return
	}
	if g.paused {
		return
	}

	// A fire press must survive frames that yield zero fixed steps, and
	// fire at most once, so it is latched here and consumed in step.
	if g.input.JustPressed(core.ActionFire) && g.state == statePlaying {
		g.fireQueued = true
	}

	g.clock.Update(dt, g.step, g.updateFeedback)
}

// step is one fixed simulation tick.
func (g *Game) step(dt float64) {
	switch g.state {
	case stateRespawning:
		g.stateTimer += dt
		if g.stateTimer >= RespawnDelay {
			g.player = NewPlayer()
			g.state = statePlaying
			g.stateTimer = 0
		}
		return

	case stateWaveComplete:
		g.stateTimer += dt
		if g.stateTimer >= WaveCompleteDelay {
			g.waves.StartWave(g.waves.Number() + 1)
			g.resetField()
			g.state = statePlaying
			g.stateTimer = 0
		}
		return

	case stateGameOver:
		return
	}

	// Playing: input, kinematics, fire control.
	dir := 0.0
	if g.input.Pressed(core.ActionLeft) {
		dir -= 1
	}
	if g.input.Pressed(core.ActionRight) {
		dir += 1
	}
	g.player.Update(dt, dir)

	if g.fireQueued {
		g.fireQueued = false
		g.firePlayerBullet()
	}

	g.updateEnemyMovement(dt)
	g.updateEnemyFire(dt)
	g.updateUFO(dt)
	g.updateBullets(dt)
	g.resolveCollisions()

	if g.state == statePlaying && g.waves.IsWaveComplete() {
		g.addScore(WaveClearBonus)
		g.state = stateWaveComplete
		g.stateTimer = 0
	}
}

// updateFeedback runs once per real frame: cosmetic systems only.
func (g *Game) updateFeedback(dt float64) {
	g.particles.Update(dt)
	g.shake.Update(dt)

	alive := g.popups[:0]
	for _, p := range g.popups {
		p.age += dt
		p.y -= 20 * dt
		if p.age < popupLifetime {
			alive = append(alive, p)
		}
	}
	g.popups = alive
}

// firePlayerBullet spawns an upward bullet at the ship's top center,
// rate-limited to MaxPlayerBullets concurrent.
func (g *Game) firePlayerBullet() {
	count := 0
	for _, b := range g.bullets {
		if !b.IsEnemy {
			count++
		}
	}
	if count >= MaxPlayerBullets {
		return
	}

	cx := g.player.X + g.player.W/2
	g.bullets = append(g.bullets, NewPlayerBullet(cx-BulletWidth/2, g.player.Y-BulletHeight))
	g.snd.PlayShoot()
}

// updateEnemyMovement runs the formation tick. The interval between ticks
// shrinks as the formation thins and waves rise; each tick the formation
// sweeps one step, and on touching a side boundary it reverses and
// descends by an amount scaled by the same pressure plus current depth.
func (g *Game) updateEnemyMovement(dt float64) {
	enemies := g.waves.Enemies()
	if len(enemies) == 0 {
		return
	}

	remaining := g.waves.RemainingFactor()
	waveSpeed := math.Min(0.3, float64(g.waves.Number()-1)*0.02)
	interval := g.waves.Config().MoveInterval / (1 + remaining*0.5 + waveSpeed)

	g.enemyMoveTimer += dt
	if g.enemyMoveTimer < interval {
		return
	}
	g.enemyMoveTimer = 0
	g.animFrame ^= 1

	for _, e := range enemies {
		e.Update(formationStepTime, g.enemyDir)
	}

	hitEdge := false
	for _, e := range enemies {
		if (g.enemyDir > 0 && e.X+e.W >= FieldWidth-FormationMargin) ||
			(g.enemyDir < 0 && e.X <= FormationMargin) {
			hitEdge = true
			break
		}
	}
	if !hitEdge {
		return
	}

	g.enemyDir = -g.enemyDir

	lowest := 0.0
	for _, e := range enemies {
		if e.Y > lowest {
			lowest = e.Y
		}
	}
	depth := core.ClampF((lowest-100)/300, 0, 1)
	descent := BaseDescent * (1 + remaining*0.5 + depth*0.4)
	for _, e := range enemies {
		e.MoveDown(descent)
	}
}

// updateEnemyFire runs the formation's fire tick on its own adaptive
// interval, choosing shooters strategically.
func (g *Game) updateEnemyFire(dt float64) {
	enemies := g.waves.Enemies()
	if len(enemies) == 0 || g.player == nil {
		return
	}

	remaining := g.waves.RemainingFactor()
	waveShoot := math.Min(0.3, float64(g.waves.Number()-1)*0.04)
	interval := g.waves.Config().ShootInterval / (1 + remaining*0.5 + waveShoot)

	g.enemyShootTimer += dt
	if g.enemyShootTimer < interval {
		return
	}
	g.enemyShootTimer = 0

	shooter := g.pickShooter(enemies)
	g.fireEnemyBullet(shooter)

	// Desperation fire: late waves with a thin formation occasionally
	// loose a second simultaneous shot.
	if g.waves.Number() > 5 &&
		float64(len(enemies)) < 0.3*float64(g.waves.InitialCount()) &&
		g.rng.Float64() < 0.3 {
		if second := g.pickOtherShooter(enemies, shooter); second != nil {
			g.fireEnemyBullet(second)
		}
	}
}

// pickShooter selects the firing enemy. With the strategic chance, low
// rows near the player's column are preferred: candidates sort by (row
// descending, horizontal distance to the player) and the shot comes from
// the top few. Otherwise any enemy fires.
func (g *Game) pickShooter(enemies []*Enemy) *Enemy {
	strategicChance := math.Min(0.85, 0.6+float64(g.waves.Number()-1)*0.05)
	if g.rng.Float64() >= strategicChance {
		return enemies[g.rng.Intn(len(enemies))]
	}

	px := g.player.X + g.player.W/2
	sorted := make([]*Enemy, len(enemies))
	copy(sorted, enemies)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row > sorted[j].Row
		}
		di := math.Abs(sorted[i].X + sorted[i].W/2 - px)
		dj := math.Abs(sorted[j].X + sorted[j].W/2 - px)
		return di < dj
	})

	k := core.Min(3, len(sorted))
	return sorted[g.rng.Intn(k)]
}

// pickOtherShooter draws a uniform shooter excluding first, or nil when
// the formation has no one else.
func (g *Game) pickOtherShooter(enemies []*Enemy, first *Enemy) *Enemy {
	candidates := make([]*Enemy, 0, len(enemies))
	for _, e := range enemies {
		if e != first {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[g.rng.Intn(len(candidates))]
}

// fireEnemyBullet spawns a downward bullet from the enemy's bottom center.
func (g *Game) fireEnemyBullet(e *Enemy) {
	cx := e.X + e.W/2
	g.bullets = append(g.bullets, NewEnemyBullet(cx-BulletWidth/2, e.Y+e.H))
}

// updateUFO rolls a spawn once per second while no saucer is out, and
// flies the active one until it leaves the field.
func (g *Game) updateUFO(dt float64) {
	if g.ufo == nil {
		g.ufoTimer += dt
		if g.ufoTimer >= UFORollInterval {
			g.ufoTimer = 0
			if g.rng.Float64() < g.waves.Config().UFOSpawnChance {
				g.ufo = NewUFO(g.rng, g.rng.Float64() < 0.5)
				g.snd.PlayUFO()
			}
		}
		return
	}

	if !g.ufo.Update(dt) {
		g.ufo = nil
	}
}

// updateBullets integrates every bullet, drops the ones leaving the field,
// and probabilistically emits trail motes behind survivors.
func (g *Game) updateBullets(dt float64) {
	alive := g.bullets[:0]
	for _, b := range g.bullets {
		if !b.Update(dt) {
			continue
		}
		alive = append(alive, b)

		chance := trailChancePlayer
		if b.IsEnemy {
			chance = trailChanceEnemy
		}
		if g.fxRng.Float64() < chance {
			g.particles.AddBulletTrail(b.X+b.W/2, b.Y, b.IsEnemy)
		}
	}
	g.bullets = alive
}

// resolveCollisions runs the collision passes in fixed precedence so a
// bullet consumed by a shield can never also kill an enemy in the same
// tick. All physics integration for the tick has already happened.
func (g *Game) resolveCollisions() {
	g.collideBulletsShields(false)
	g.collideBulletsShields(true)
	g.collidePlayerBulletsEnemies()
	g.collidePlayerBulletsUFO()
	g.collideEnemyBulletsPlayer()
	g.checkInvasion()
}

// collideBulletsShields absorbs bullets of one ownership into shield
// masks. Bullets whose center meets an existing hole pass through.
func (g *Game) collideBulletsShields(enemyOwned bool) {
	alive := g.bullets[:0]
	for _, b := range g.bullets {
		absorbed := false
		if b.IsEnemy == enemyOwned {
			for _, s := range g.shields {
				if s.CheckBulletCollision(b.Bounds()) {
					absorbed = true
					cx, cy := b.Bounds().Center()
					g.particles.AddHitSpark(cx, cy, core.ColorBrightGreen)
					g.snd.PlayShieldHit()
					break
				}
			}
		}
		if !absorbed {
			alive = append(alive, b)
		}
	}
	g.bullets = alive
}

// collidePlayerBulletsEnemies kills enemies hit by player bullets,
// scoring by type with a burst, shake and sound per kill.
func (g *Game) collidePlayerBulletsEnemies() {
	alive := g.bullets[:0]
	for _, b := range g.bullets {
		if b.IsEnemy {
			alive = append(alive, b)
			continue
		}

		hit := -1
		enemies := g.waves.Enemies()
		for i, e := range enemies {
			if b.Bounds().Intersects(e.Bounds()) {
				hit = i
				break
			}
		}
		if hit < 0 {
			alive = append(alive, b)
			continue
		}

		e := enemies[hit]
		g.waves.RemoveAt(hit)
		g.addScore(e.Points())
		cx, cy := e.Bounds().Center()
		g.particles.AddExplosion(cx, cy, 18, enemyColor(e.Type))
		g.shake.Shake(0.15, 2)
		g.snd.PlayExplosion()
	}
	g.bullets = alive
}

// collidePlayerBulletsUFO awards the saucer's pre-rolled bonus on a hit,
// with a bigger burst and shake than a regular kill.
func (g *Game) collidePlayerBulletsUFO() {
	if g.ufo == nil {
		return
	}
	for i, b := range g.bullets {
		if b.IsEnemy {
			continue
		}
		if !b.Bounds().Intersects(g.ufo.Bounds()) {
			continue
		}

		g.bullets = append(g.bullets[:i], g.bullets[i+1:]...)
		cx, cy := g.ufo.Bounds().Center()
		g.addScore(g.ufo.Points)
		g.addPopup(cx, cy, g.ufo.Points)
		g.particles.AddExplosion(cx, cy, 30, core.ColorBrightRed)
		g.shake.Shake(0.3, 4)
		g.snd.PlayExplosion()
		g.ufo = nil
		return
	}
}

// collideEnemyBulletsPlayer handles the ship being hit: bullet gone,
// strong feedback, one life down.
func (g *Game) collideEnemyBulletsPlayer() {
	if g.player == nil {
		return
	}
	pb := g.player.Bounds()
	for i, b := range g.bullets {
		if !b.IsEnemy {
			continue
		}
		if !b.Bounds().Intersects(pb) {
			continue
		}

		g.bullets = append(g.bullets[:i], g.bullets[i+1:]...)
		cx, cy := pb.Center()
		g.particles.AddExplosion(cx, cy, 24, core.ColorBrightRed)
		g.shake.Shake(0.4, 6)
		g.snd.PlayExplosion()
		g.loseLife()
		return
	}
}

// checkInvasion ends the game the moment any enemy reaches the player's
// row, regardless of lives left.
func (g *Game) checkInvasion() {
	for _, e := range g.waves.Enemies() {
		if e.Y+e.H >= PlayerY {
			g.endGame()
			return
		}
	}
}

// loseLife decrements lives and either ends the game or enters the
// respawn wait with the ship gone and player bullets cleared.
func (g *Game) loseLife() {
	g.lives--
	if g.lives <= 0 {
		g.endGame()
		return
	}

	g.state = stateRespawning
	g.stateTimer = 0
	g.player = nil
	g.fireQueued = false
	g.clearPlayerBullets()
}

// endGame is the terminal transition.
func (g *Game) endGame() {
	if g.state == stateGameOver {
		return
	}
	g.state = stateGameOver
	g.gameOver = true
	g.player = nil
	g.saveHighScore()
}

// clearPlayerBullets removes the ship's bullets, keeping enemy fire.
func (g *Game) clearPlayerBullets() {
	alive := g.bullets[:0]
	for _, b := range g.bullets {
		if b.IsEnemy {
			alive = append(alive, b)
		}
	}
	g.bullets = alive
}

// addScore bumps the score and tracks the live high score.
func (g *Game) addScore(points int) {
	g.score += points
	if g.score > g.highScore {
		g.highScore = g.score
		g.hsDirty = true
	}
}

// addPopup floats a bonus readout at (x, y).
func (g *Game) addPopup(x, y float64, points int) {
	g.popups = append(g.popups, scorePopup{x: x, y: y, text: formatPoints(points)})
}

// saveHighScore persists the high score if it moved this session.
func (g *Game) saveHighScore() {
	if !g.hsDirty {
		return
	}
	SaveHighScore(g.hsPath, g.highScore)
	g.hsDirty = false
}

// Cleanup flushes the high score when the scene is left mid-game.
func (g *Game) Cleanup() {
	g.saveHighScore()
}

// Session reports the current session state.
func (g *Game) Session() core.SessionState {
	return core.SessionState{
		Score:     g.score,
		HighScore: g.highScore,
		Lives:     g.lives,
		Wave:      g.waves.Number(),
		Paused:    g.paused,
		GameOver:  g.gameOver,
	}
}

// Register the game with the scene registry.
func init() {
	scene.Register("invaders", func() scene.Scene {
		return New()
	})
}
