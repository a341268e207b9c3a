package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 60)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the coarse status a game reports to the platform.
type GameState struct {
	Score    int  // Coins collected so far
	GameOver bool // Lives ran out
	Paused   bool
	Complete bool // Finished and acknowledged; terminal
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
