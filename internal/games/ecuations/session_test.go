package ecuations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/ecuations-d/internal/config"
	"github.com/vovakirdan/ecuations-d/internal/core"
	"github.com/vovakirdan/ecuations-d/internal/mission"
)

// 100 ticks per second: one Step is exactly 10ms of session time.
var testRuntime = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 100}

const stepDuration = 10 * time.Millisecond

type fakeSink struct {
	mu    sync.Mutex
	saved []mission.Summary
	err   error
	delay time.Duration
}

func (f *fakeSink) SaveSummary(_ context.Context, s mission.Summary) error {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return f.err
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeSounds struct {
	played map[string]int
	music  bool
}

func (f *fakeSounds) Play(name string) {
	if f.played == nil {
		f.played = make(map[string]int)
	}
	f.played[name]++
}

func (f *fakeSounds) SetMusic(on bool) { f.music = on }

func newTestGame(t *testing.T, m mission.Mission, cfg config.EcuationsConfig, sink SummarySink) *Game {
	t.Helper()
	g := New(m, Options{Config: cfg, Sink: sink, SessionID: "test-session"})
	g.Reset(testRuntime)
	if err := g.Err(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

// run steps the game for d of session time with the same frame each tick.
func run(g *Game, d time.Duration, in core.InputFrame) {
	for range int(d / stepDuration) {
		g.Step(in)
	}
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func hold(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Hold(a, true)
	}
	return in
}

func spikeMission() mission.Mission {
	m := testMission()
	// hitbox [150,268]x[394,512] overlaps the character at the start
	m.Enemies = []mission.Enemy{{ID: 1, X: 150, Type: "spike"}}
	return m
}

func TestLoopRates(t *testing.T) {
	g := newTestGame(t, testMission(), config.DefaultEcuationsConfig(), nil)

	run(g, time.Second, core.NewInputFrame())

	sched := g.Session().Scheduler()
	tests := []struct {
		task string
		want uint64
	}{
		{TaskKinematics, 30},
		{TaskEnemies, 20},
		{TaskProjectiles, 30},
		{TaskCollisions, 10},
	}
	for _, tt := range tests {
		if got := sched.Runs(tt.task); got != tt.want {
			t.Errorf("%s ran %d times in 1s, want %d", tt.task, got, tt.want)
		}
	}
}

func TestDamageInvulnerabilityWindow(t *testing.T) {
	g := newTestGame(t, spikeMission(), config.DefaultEcuationsConfig(), nil)
	st := func() GameState { return g.Session().World().State }

	run(g, 100*time.Millisecond, core.NewInputFrame())
	if st().Lives != 2 || !st().IsInvulnerable {
		t.Fatalf("after first contact: %+v, want 2 lives and invulnerable", st())
	}

	// still overlapping for the rest of the window
	run(g, 1950*time.Millisecond, core.NewInputFrame())
	if st().Lives != 2 {
		t.Fatalf("lost a life inside the invulnerability window: lives = %d", st().Lives)
	}

	run(g, 250*time.Millisecond, core.NewInputFrame())
	if st().Lives != 1 {
		t.Errorf("after the window: lives = %d, want 1", st().Lives)
	}
}

func TestGameOverOnLastLife(t *testing.T) {
	cfg := config.DefaultEcuationsConfig()
	cfg.Character.StartLives = 1
	g := newTestGame(t, spikeMission(), cfg, nil)
	s := g.Session()

	run(g, 100*time.Millisecond, core.NewInputFrame())

	if !s.World().State.IsGameOver || s.World().State.Lives != 0 {
		t.Fatalf("state = %+v, want game over with 0 lives", s.World().State)
	}
	if s.Phase() != PhaseGameOver || !g.State().GameOver {
		t.Errorf("phase = %v, want game over", s.Phase())
	}

	before := *s.World()
	run(g, 500*time.Millisecond, hold(core.ActionRight))
	g.Step(press(core.ActionShoot, core.ActionJump, core.ActionPause, core.ActionHelper))
	run(g, 100*time.Millisecond, core.NewInputFrame())

	after := s.World()
	if after.Character != before.Character {
		t.Errorf("character moved after game over: %+v", after.Character)
	}
	if after.State != before.State {
		t.Errorf("state changed after game over: %+v", after.State)
	}
	if len(after.Bullets) != 0 {
		t.Errorf("fired after game over")
	}

	g.Step(press(core.ActionRestart))
	if g.Session() == s || g.Session().World().State.IsGameOver {
		t.Error("restart did not start a fresh session")
	}
	if s.Active() {
		t.Error("old session still active after restart")
	}
}

func TestCompletionLock(t *testing.T) {
	sink := &fakeSink{}
	sounds := &fakeSounds{}
	g := New(testMission(), Options{Config: config.DefaultEcuationsConfig(), Sink: sink, Sounds: sounds})
	g.Reset(testRuntime)
	t.Cleanup(g.Close)
	s := g.Session()
	w := s.World()
	w.Character.X = 1800 // right edge 1928 is past the padded flag edge 1896

	run(g, 100*time.Millisecond, core.NewInputFrame())
	if !s.Locked() {
		t.Fatal("touching the flag did not lock")
	}
	if s.Phase() != PhaseRunning || w.State.IsComplete {
		t.Fatalf("lock must not complete by itself: phase=%v", s.Phase())
	}

	// everything but the acknowledgment is ignored
	run(g, 500*time.Millisecond, hold(core.ActionLeft))
	g.Step(press(core.ActionJump, core.ActionShoot, core.ActionPause, core.ActionHelper, core.ActionDebug))
	run(g, 500*time.Millisecond, core.NewInputFrame())
	if w.Character.X != 1800 || w.Character.Y != 512 {
		t.Errorf("character moved while locked: %+v", w.Character)
	}
	if len(w.Bullets) != 0 || w.State.IsPaused || w.Debug || w.State.HelperActive {
		t.Errorf("input leaked through the lock: %+v", w.State)
	}
	if n := sounds.played[SoundComplete]; n != 1 {
		t.Errorf("complete sound played %d times, want 1", n)
	}

	g.Step(press(core.ActionConfirm))
	if !w.State.IsComplete || s.Phase() != PhaseComplete {
		t.Fatalf("acknowledgment did not complete: %+v", w.State)
	}
	g.Step(press(core.ActionConfirm))
	run(g, 200*time.Millisecond, core.NewInputFrame())
	if s.Acknowledge() {
		t.Error("second acknowledgment reported a transition")
	}

	s.Wait()
	if n := sink.count(); n != 1 {
		t.Fatalf("summary delivered %d times, want 1", n)
	}
	got := sink.saved[0]
	want := mission.Summary{
		SessionID:       s.ID(),
		MissionID:       "test",
		Timestamp:       got.Timestamp,
		Lives:           3,
		Ammo:            10,
		Coins:           0,
		Treasures:       0,
		EquationsSolved: 0,
	}
	if got != want {
		t.Errorf("summary = %+v, want %+v", got, want)
	}
	if got.Timestamp.IsZero() {
		t.Error("summary has no timestamp")
	}
}

func TestSummaryFailureIsSwallowed(t *testing.T) {
	sink := &fakeSink{err: errors.New("disk full")}
	g := newTestGame(t, testMission(), config.DefaultEcuationsConfig(), sink)
	s := g.Session()
	s.World().Character.X = 1800

	run(g, 100*time.Millisecond, core.NewInputFrame())
	g.Step(press(core.ActionConfirm))
	s.Wait()

	if sink.count() != 1 {
		t.Fatalf("summary attempts = %d, want 1", sink.count())
	}
	if !g.State().Complete {
		t.Error("failed delivery must not undo completion")
	}
}

func TestRestartKeepsPendingSummary(t *testing.T) {
	sink := &fakeSink{delay: 200 * time.Millisecond}
	g := newTestGame(t, testMission(), config.DefaultEcuationsConfig(), sink)
	g.Session().World().Character.X = 1800

	run(g, 100*time.Millisecond, core.NewInputFrame())
	g.Step(press(core.ActionConfirm))
	if !g.State().Complete {
		t.Fatal("mission did not complete")
	}

	first := g.Session()
	g.Step(press(core.ActionRestart))
	if g.Session() == first {
		t.Fatal("restart kept the old session")
	}

	g.Close()
	g.Wait()
	if n := sink.count(); n != 1 {
		t.Errorf("summaries delivered when Wait returned = %d, want 1", n)
	}
}

func TestWalkIntoCoin(t *testing.T) {
	m := testMission()
	m.Collectibles = []mission.Collectible{{ID: 1, X: 300, Y: 400, Type: mission.TypeCoin, Value: 5}}
	g := newTestGame(t, m, config.DefaultEcuationsConfig(), nil)
	w := g.Session().World()
	initial := len(w.Collectibles)

	for range 300 {
		g.Step(hold(core.ActionRight))
		if w.State.Coins > 0 {
			break
		}
	}

	if w.State.Coins != 5 {
		t.Fatalf("coins = %d, want 5", w.State.Coins)
	}
	if got := len(w.Collectibles); got != initial-1 {
		t.Errorf("collectibles = %d, want %d", got, initial-1)
	}
	for _, c := range w.Collectibles {
		if c.ID == "test-1" {
			t.Error("picked coin is still in the world")
		}
	}
}

func TestShootStationaryEnemy(t *testing.T) {
	m := testMission()
	m.Enemies = []mission.Enemy{{ID: 1, X: 600, Type: "spike"}}
	g := newTestGame(t, m, config.DefaultEcuationsConfig(), nil)
	w := g.Session().World()

	g.Step(press(core.ActionShoot))
	if len(w.Bullets) != 1 {
		t.Fatalf("bullets = %d, want 1", len(w.Bullets))
	}

	hit := false
	for range 300 {
		g.Step(core.NewInputFrame())
		if len(w.Enemies) == 0 {
			hit = true
			break
		}
	}
	if !hit {
		t.Fatal("projectile never reached the enemy")
	}
	if w.State.EquationsSolved != 1 {
		t.Errorf("equations solved = %d, want 1", w.State.EquationsSolved)
	}
	if len(w.Explosions) != 1 {
		t.Fatalf("explosions = %d, want 1", len(w.Explosions))
	}
	if len(w.Bullets) != 0 {
		t.Errorf("bullet survived the hit")
	}

	run(g, 300*time.Millisecond, core.NewInputFrame())
	if len(w.Explosions) != 1 {
		t.Errorf("explosion expired early")
	}
	run(g, 150*time.Millisecond, core.NewInputFrame())
	if len(w.Explosions) != 0 {
		t.Errorf("explosion did not expire after 400ms")
	}
}

func TestShootingCooldown(t *testing.T) {
	g := newTestGame(t, testMission(), config.DefaultEcuationsConfig(), nil)
	w := g.Session().World()

	g.Step(press(core.ActionShoot))
	run(g, 100*time.Millisecond, core.NewInputFrame())
	g.Step(press(core.ActionShoot))

	if len(w.Bullets) != 1 {
		t.Fatalf("bullets = %d after two shots 100ms apart, want 1", len(w.Bullets))
	}

	run(g, 500*time.Millisecond, core.NewInputFrame())
	g.Step(press(core.ActionShoot))
	if len(w.Bullets) != 2 {
		t.Errorf("bullets = %d after the cooldown, want 2", len(w.Bullets))
	}
}

func TestPauseFreezesLoops(t *testing.T) {
	m := testMission()
	m.Enemies = []mission.Enemy{{ID: 1, X: 800, Type: "moving", Speed: 0.5}}
	g := newTestGame(t, m, config.DefaultEcuationsConfig(), nil)
	s := g.Session()
	w := s.World()

	g.Step(press(core.ActionPause))
	if s.Phase() != PhasePaused {
		t.Fatalf("phase = %v, want paused", s.Phase())
	}
	enemyX := w.Enemies[0].X
	run(g, 500*time.Millisecond, hold(core.ActionRight))
	if w.Character.X != 100 || w.Enemies[0].X != enemyX {
		t.Errorf("world moved while paused: character x=%v enemy x=%v", w.Character.X, w.Enemies[0].X)
	}

	g.Step(press(core.ActionPause))
	run(g, 500*time.Millisecond, hold(core.ActionRight))
	if w.Character.X <= 100 || w.Enemies[0].X == enemyX {
		t.Errorf("world did not resume: character x=%v enemy x=%v", w.Character.X, w.Enemies[0].X)
	}
}

func TestCloseDropsLateCallbacks(t *testing.T) {
	g := newTestGame(t, spikeMission(), config.DefaultEcuationsConfig(), nil)
	s := g.Session()

	run(g, 100*time.Millisecond, core.NewInputFrame())
	if !s.World().State.IsInvulnerable {
		t.Fatal("expected an invulnerability timer to be pending")
	}

	s.Close()
	run(g, 3*time.Second, core.NewInputFrame())

	if s.Active() {
		t.Error("session still active after Close")
	}
	if n := s.Scheduler().Pending(); n != 0 {
		t.Errorf("pending timers after Close = %d, want 0", n)
	}
	if !s.World().State.IsInvulnerable || s.World().State.Lives != 2 {
		t.Errorf("torn-down session was mutated: %+v", s.World().State)
	}
}

func TestHelper(t *testing.T) {
	sounds := &fakeSounds{}
	g := New(testMission(), Options{Config: config.DefaultEcuationsConfig(), Sounds: sounds})
	g.Reset(testRuntime)
	t.Cleanup(g.Close)
	st := &g.Session().World().State

	g.Step(press(core.ActionHelper))
	if st.Lives != 4 || !st.HelperActive {
		t.Fatalf("after helper: %+v, want 4 lives and helper active", *st)
	}

	g.Step(press(core.ActionHelper))
	if st.Lives != 4 {
		t.Errorf("helper called twice while active: lives = %d", st.Lives)
	}

	run(g, 5*time.Second, core.NewInputFrame())
	if st.HelperActive {
		t.Fatal("helper still active after its duration")
	}

	for range 3 {
		g.Step(press(core.ActionHelper))
		run(g, 5*time.Second, core.NewInputFrame())
	}
	if st.Lives != 5 {
		t.Errorf("lives = %d, want capped at 5", st.Lives)
	}
	if sounds.played[SoundPowerUp] == 0 {
		t.Error("helper played no sound")
	}
}

func TestMusicToggle(t *testing.T) {
	sounds := &fakeSounds{}
	g := New(testMission(), Options{Config: config.DefaultEcuationsConfig(), Sounds: sounds})
	g.Reset(testRuntime)

	g.Step(press(core.ActionMusic))
	if !sounds.music || !g.Session().World().State.MusicOn {
		t.Fatal("music did not start")
	}
	g.Close()
	if sounds.music {
		t.Error("music still playing after Close")
	}
}

func TestRenderDoesNotPanic(t *testing.T) {
	m := spikeMission()
	m.Platforms = []mission.Platform{{ID: 1, X: 350, Y: 400, Width: 80, Height: 20}}
	m.Collectibles = []mission.Collectible{{ID: 1, X: 300, Y: 400, Symbol: "dy", Type: mission.TypeFruit}}
	g := newTestGame(t, m, config.DefaultEcuationsConfig(), nil)

	screen := core.NewScreen(80, 24)
	g.Step(press(core.ActionDebug, core.ActionShoot))
	run(g, 200*time.Millisecond, hold(core.ActionRight))
	g.Render(screen)

	if got := screen.Row(0); len(got) == 0 || got[:7] != " Lives:" {
		t.Errorf("HUD row = %q", got)
	}

	for _, size := range [][2]int{{1, 1}, {10, 3}, {200, 60}} {
		screen.Resize(size[0], size[1])
		g.Render(screen)
	}
}

func TestInputTrackerHoldWindow(t *testing.T) {
	tr := NewInputTracker(400 * time.Millisecond)

	tr.Apply(press(core.ActionRight), 0)
	if !tr.IsHeld(core.ActionRight, 399*time.Millisecond) {
		t.Error("press should count as held inside the window")
	}
	if tr.IsHeld(core.ActionRight, 400*time.Millisecond) {
		t.Error("press should expire at the end of the window")
	}

	tr.Apply(press(core.ActionLeft), 100*time.Millisecond)
	if tr.IsHeld(core.ActionRight, 150*time.Millisecond) {
		t.Error("pressing left should release right")
	}

	tr.Apply(hold(core.ActionRight), time.Second)
	if !tr.IsHeld(core.ActionRight, time.Hour) {
		t.Error("explicitly held key should stay held")
	}
	tr.Apply(core.NewInputFrame(), time.Hour)
	if tr.IsHeld(core.ActionRight, time.Hour) {
		t.Error("held key should release when the frame no longer holds it")
	}
}

func TestInputTrackerJumpLatch(t *testing.T) {
	tr := NewInputTracker(400 * time.Millisecond)

	tr.Apply(press(core.ActionJump), 0)
	if !tr.Controls(0).Jump {
		t.Fatal("jump press was not latched")
	}
	if tr.Controls(0).Jump {
		t.Error("latched jump was not consumed")
	}
}

func TestInputTrackerLock(t *testing.T) {
	tr := NewInputTracker(400 * time.Millisecond)
	tr.Apply(press(core.ActionRight, core.ActionJump), 0)
	tr.Lock()

	c := tr.Controls(0)
	if c.Left || c.Right || c.Jump {
		t.Errorf("controls after lock = %+v, want none", c)
	}
	got := tr.Apply(press(core.ActionShoot, core.ActionPause, core.ActionConfirm), 0)
	if len(got) != 1 || got[0] != core.ActionConfirm {
		t.Errorf("actions after lock = %v, want only Confirm", got)
	}
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultEcuationsConfig()
	cfg.Loops.CollisionsHz = 0
	if _, err := NewSession(testMission(), Options{Config: cfg}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}
