// Package ecuations implements the Ecuations-D platformer: a side-scrolling
// level where the player collects the symbols of a differential equation,
// shoots patrolling enemies and runs for the finish flag.
//
// The simulation is split into subsystems that run at their own rates on a
// single scheduler. Game adapts a Session to the fixed-tick registry.Game
// interface the terminal platform drives.
package ecuations

import (
	"sync"
	"time"

	"github.com/vovakirdan/ecuations-d/internal/core"
	"github.com/vovakirdan/ecuations-d/internal/mission"
	"github.com/vovakirdan/ecuations-d/internal/scheduler"
)

// Game plays one mission. Each Step advances a manual clock by one platform
// tick, which keeps a run reproducible for a given input sequence.
type Game struct {
	mission mission.Mission
	opts    Options
	clock   *scheduler.ManualClock
	session *Session
	err     error
	rc      core.RuntimeConfig

	// retired tracks summary deliveries of sessions replaced by Reset.
	retired sync.WaitGroup
}

// New creates a game for m. Reset must be called before Step.
func New(m mission.Mission, opts Options) *Game {
	return &Game{mission: m, opts: opts}
}

// ID returns the mission id.
func (g *Game) ID() string {
	return g.mission.ID
}

// Title returns the mission title.
func (g *Game) Title() string {
	return g.mission.Title
}

// Reset starts a fresh session, closing the previous one.
func (g *Game) Reset(rc core.RuntimeConfig) {
	if rc.TickRate <= 0 {
		rc.TickRate = core.DefaultConfig().TickRate
	}
	g.rc = rc
	if g.session != nil {
		g.retire(g.session)
	}
	g.clock = scheduler.NewManualClock()
	opts := g.opts
	opts.Clock = g.clock
	g.session, g.err = NewSession(g.mission, opts)
}

// Err returns the error of the last Reset, if the session could not start.
func (g *Game) Err() error {
	return g.err
}

// Session returns the running session, or nil if Reset failed.
func (g *Game) Session() *Session {
	return g.session
}

// Step handles the frame's input and advances one platform tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{State: g.State()}
	}
	phase := g.session.Phase()
	if in.Has(core.ActionRestart) && (phase == PhaseGameOver || phase == PhaseComplete) {
		g.Reset(g.rc)
		return core.StepResult{State: g.State()}
	}

	g.session.Handle(in)
	g.clock.Advance(time.Second / time.Duration(g.rc.TickRate))
	g.session.Advance()
	return core.StepResult{State: g.State()}
}

// State returns the coarse state for the platform.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	st := g.session.World().State
	return core.GameState{
		Score:    st.Coins,
		GameOver: st.IsGameOver,
		Paused:   st.IsPaused,
		Complete: st.IsComplete,
	}
}

// Close ends the running session.
func (g *Game) Close() {
	if g.session != nil {
		g.session.Close()
	}
}

// Wait blocks until every summary delivery started by this game finishes,
// including those of sessions a restart replaced.
func (g *Game) Wait() {
	if g.session != nil {
		g.session.Wait()
	}
	g.retired.Wait()
}

func (g *Game) retire(s *Session) {
	s.Close()
	g.retired.Add(1)
	go func() {
		defer g.retired.Done()
		s.Wait()
	}()
}
