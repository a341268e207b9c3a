package ecuations

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/ecuations-d/internal/config"
	"github.com/vovakirdan/ecuations-d/internal/core"
	"github.com/vovakirdan/ecuations-d/internal/mission"
	"github.com/vovakirdan/ecuations-d/internal/scheduler"
)

// Sound event names.
const (
	SoundJump     = "jump"
	SoundCollect  = "collect"
	SoundDamage   = "damage"
	SoundEnemy    = "enemy"
	SoundShoot    = "shoot"
	SoundComplete = "complete"
	SoundPowerUp  = "powerUp"
)

// Scheduler task names.
const (
	TaskKinematics  = "kinematics"
	TaskEnemies     = "enemies"
	TaskProjectiles = "projectiles"
	TaskCollisions  = "collisions"
)

// summaryTimeout bounds a single delivery attempt.
const summaryTimeout = 5 * time.Second

// Sounds plays named sound events. Calls must not block.
type Sounds interface {
	Play(name string)
	SetMusic(on bool)
}

// SummarySink receives the summary of a completed mission.
type SummarySink interface {
	SaveSummary(ctx context.Context, s mission.Summary) error
}

type silentSounds struct{}

func (silentSounds) Play(string)   {}
func (silentSounds) SetMusic(bool) {}

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseRunning Phase = iota
	PhasePaused
	PhaseGameOver
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game over"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Options configures a Session. Only Config is required.
type Options struct {
	Config    config.EcuationsConfig
	Clock     scheduler.Clock // defaults to a monotonic clock
	Sink      SummarySink     // nil: summaries are dropped
	Sounds    Sounds          // nil: silent
	Logger    *log.Logger     // nil: discard
	SessionID string          // defaults to a random UUID
	Now       func() time.Time
}

// Session runs one mission. It owns the world and drives every subsystem
// from one scheduler. All methods must be called from one goroutine; the
// only work done elsewhere is summary delivery.
type Session struct {
	id     string
	cfg    config.EcuationsConfig
	rules  Rules
	world  *WorldState
	input  *InputTracker
	sched  *scheduler.Scheduler
	sink   SummarySink
	sounds Sounds
	logger *log.Logger
	now    func() time.Time

	active  bool
	emitted bool
	summary mission.Summary
	wg      sync.WaitGroup
}

// NewSession builds the world for m and registers the subsystem loops.
func NewSession(m mission.Mission, opts Options) (*Session, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = scheduler.NewMonotonicClock()
	}
	s := &Session{
		id:     opts.SessionID,
		cfg:    opts.Config,
		rules:  NewRules(opts.Config),
		world:  BuildWorld(m, opts.Config),
		input:  NewInputTracker(time.Duration(opts.Config.Input.HoldWindowMS) * time.Millisecond),
		sched:  scheduler.New(clock),
		sink:   opts.Sink,
		sounds: opts.Sounds,
		logger: opts.Logger,
		now:    opts.Now,
		active: true,
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.sounds == nil {
		s.sounds = silentSounds{}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.now == nil {
		s.now = time.Now
	}

	loops := opts.Config.Loops
	tasks := []struct {
		name string
		hz   int
		fn   func()
	}{
		{TaskKinematics, loops.KinematicsHz, s.kinematicsTick},
		{TaskEnemies, loops.EnemiesHz, s.enemiesTick},
		{TaskProjectiles, loops.ProjectilesHz, s.projectilesTick},
		{TaskCollisions, loops.CollisionsHz, s.collisionsTick},
	}
	for _, t := range tasks {
		if err := s.sched.EveryHz(t.name, t.hz, t.fn); err != nil {
			return nil, fmt.Errorf("ecuations: %w", err)
		}
	}

	s.logger.Debug("session started", "session", s.id, "mission", m.ID)
	return s, nil
}

// ID returns the session id stored with the summary.
func (s *Session) ID() string { return s.id }

// World returns the live world. Callers must not mutate it.
func (s *Session) World() *WorldState { return s.world }

// Rules returns the transition functions the session uses.
func (s *Session) Rules() Rules { return s.rules }

// Scheduler exposes the session scheduler, mainly for inspection in tests.
func (s *Session) Scheduler() *scheduler.Scheduler { return s.sched }

// Active reports whether the session has not been closed.
func (s *Session) Active() bool { return s.active }

// Locked reports whether the finish flag has been reached.
func (s *Session) Locked() bool { return s.world.Locked }

// Phase returns the current phase. Locked is orthogonal to Running.
func (s *Session) Phase() Phase {
	st := s.world.State
	switch {
	case st.IsComplete:
		return PhaseComplete
	case st.IsGameOver:
		return PhaseGameOver
	case st.IsPaused:
		return PhasePaused
	default:
		return PhaseRunning
	}
}

// Handle applies one input frame at the current session time.
func (s *Session) Handle(in core.InputFrame) {
	if !s.active {
		return
	}
	now := s.sched.Now()
	for _, a := range s.input.Apply(in, now) {
		switch a {
		case core.ActionPause:
			s.togglePause()
		case core.ActionDebug:
			s.world.Debug = !s.world.Debug
		case core.ActionMusic:
			s.toggleMusic()
		case core.ActionHelper:
			s.callHelper()
		case core.ActionShoot:
			if s.rules.Fire(s.world, now) {
				s.sounds.Play(SoundShoot)
			}
		case core.ActionConfirm:
			s.Acknowledge()
		}
	}
}

// Advance runs every loop that is due and fires due timers.
func (s *Session) Advance() {
	if !s.active {
		return
	}
	s.sched.Tick()
}

// Update is Handle followed by Advance.
func (s *Session) Update(in core.InputFrame) {
	s.Handle(in)
	s.Advance()
}

// Acknowledge confirms the finish prompt. The first call after the lock
// engaged completes the mission and emits the summary; any other call is
// a no-op.
func (s *Session) Acknowledge() bool {
	if !s.active || !s.world.Locked || s.world.State.IsComplete {
		return false
	}
	s.world.State.IsComplete = true
	s.logger.Info("mission complete", "session", s.id, "mission", s.world.Mission.ID,
		"coins", s.world.State.Coins, "lives", s.world.State.Lives)
	s.emitSummary()
	return true
}

// Summary returns the numbers the completion summary carries.
func (s *Session) Summary() mission.Summary {
	if s.emitted {
		return s.summary
	}
	st := s.world.State
	return mission.Summary{
		SessionID:       s.id,
		MissionID:       s.world.Mission.ID,
		Timestamp:       s.now(),
		Coins:           st.Coins,
		Lives:           st.Lives,
		Ammo:            st.Ammo,
		Treasures:       st.Treasures,
		EquationsSolved: st.EquationsSolved,
	}
}

// Close tears the session down. Pending timers are cancelled and callbacks
// that still arrive are dropped. Close does not wait for summary delivery.
func (s *Session) Close() {
	if !s.active {
		return
	}
	s.active = false
	s.sched.Stop()
	if s.world.State.MusicOn {
		s.sounds.SetMusic(false)
	}
	s.logger.Debug("session closed", "session", s.id, "phase", s.Phase())
}

// Wait blocks until a pending summary delivery finishes.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) emitSummary() {
	if s.emitted {
		return
	}
	s.summary = s.Summary()
	s.emitted = true
	if s.sink == nil {
		return
	}

	sum := s.summary
	sink := s.sink
	logger := s.logger
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
		defer cancel()
		if err := sink.SaveSummary(ctx, sum); err != nil {
			logger.Warn("summary not saved", "mission", sum.MissionID, "err", err)
			return
		}
		logger.Debug("summary saved", "mission", sum.MissionID)
	}()
}

// after schedules fn on the session scheduler. fn is skipped if the session
// has been closed by the time it fires.
func (s *Session) after(ms int, fn func()) *scheduler.Timer {
	return s.sched.After(time.Duration(ms)*time.Millisecond, func() {
		if !s.active {
			return
		}
		fn()
	})
}

func (s *Session) togglePause() {
	st := &s.world.State
	if st.IsGameOver || st.IsComplete || s.world.Locked {
		return
	}
	st.IsPaused = !st.IsPaused
	s.logger.Debug("pause toggled", "paused", st.IsPaused)
}

func (s *Session) toggleMusic() {
	st := &s.world.State
	st.MusicOn = !st.MusicOn
	s.sounds.SetMusic(st.MusicOn)
}

// callHelper summons the helper robot: one extra life up to the cap, once
// per helper duration.
func (s *Session) callHelper() {
	st := &s.world.State
	if s.world.Frozen() || st.HelperActive {
		return
	}
	st.Lives = min(st.Lives+1, s.cfg.Helper.MaxLives)
	st.HelperActive = true
	s.sounds.Play(SoundPowerUp)
	s.after(s.cfg.Helper.DurationMS, func() {
		s.world.State.HelperActive = false
	})
}

func (s *Session) kinematicsTick() {
	if s.world.Frozen() {
		return
	}
	if s.rules.StepCharacter(s.world, s.input.Controls(s.sched.Now())) {
		s.sounds.Play(SoundJump)
	}
}

func (s *Session) enemiesTick() {
	s.rules.StepEnemies(s.world)
}

func (s *Session) projectilesTick() {
	queued := s.rules.StepProjectiles(s.world)
	if len(queued) == 0 {
		return
	}
	s.sounds.Play(SoundEnemy)
	for _, e := range queued {
		id := e.ID
		s.after(s.cfg.Timers.ExplosionMS, func() {
			s.world.RemoveExplosion(id)
		})
	}
}

func (s *Session) collisionsTick() {
	w := s.world
	if w.Frozen() {
		return
	}

	if picked := s.rules.ResolvePickups(w); len(picked) > 0 {
		s.sounds.Play(SoundCollect)
	}

	if s.rules.ResolveDamage(w) {
		s.sounds.Play(SoundDamage)
		if w.State.IsGameOver {
			s.logger.Info("game over", "session", s.id, "mission", w.Mission.ID)
			return
		}
		s.after(s.cfg.Timers.InvulnerabilityMS, func() {
			s.world.State.IsInvulnerable = false
		})
	}

	if s.rules.CheckGoal(w) {
		s.input.Lock()
		s.sounds.Play(SoundComplete)
		s.logger.Info("finish flag reached", "session", s.id, "mission", w.Mission.ID)
	}
}
