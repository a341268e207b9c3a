package ecuations

import (
	"time"

	"github.com/vovakirdan/ecuations-d/internal/config"
	"github.com/vovakirdan/ecuations-d/internal/core"
	"github.com/vovakirdan/ecuations-d/internal/mission"
)

// EnemyLife is the lifecycle of an enemy.
type EnemyLife int

const (
	EnemyAlive   EnemyLife = iota
	EnemyDying             // hit this tick; excluded from every collision test
	EnemyRemoved           // gone for good
)

// Character is the player avatar. X is the left edge of the sprite and Y
// the foot baseline; y grows downward.
type Character struct {
	X, Y      float64
	VX, VY    float64
	Direction int // +1 right, -1 left
	Grounded  bool
	Jumping   bool
}

// Platform is a solid ledge. Y is the top edge.
type Platform struct {
	ID            int
	X, Y          float64
	Width, Height float64
}

// Box returns the collision rectangle of the platform.
func (p Platform) Box() core.Box {
	return core.NewBox(p.X, p.Y, p.Width, p.Height)
}

// Enemy is a hazard. Y is the foot anchor; the hitbox hangs FloorOffset
// above it.
type Enemy struct {
	ID      int
	X, Y    float64
	Type    string
	Speed   float64
	Life    EnemyLife
	Metrics config.EnemyMetrics
}

// Box returns the enemy hitbox.
func (e Enemy) Box() core.Box {
	return core.NewBox(e.X, e.Y-e.Metrics.FloorOffset, e.Metrics.Width, e.Metrics.Height)
}

// Collectible is a pickup. X, Y is the top-left corner of a Size square.
type Collectible struct {
	ID     string
	X, Y   float64
	Symbol string
	Type   mission.CollectibleType
	Value  int
	Size   float64
}

// Box returns the pickup rectangle.
func (c Collectible) Box() core.Box {
	return core.NewBox(c.X, c.Y, c.Size, c.Size)
}

// Label is the text shown for the item in the collected log.
func (c Collectible) Label() string {
	switch {
	case c.Symbol != "":
		return c.Symbol
	case c.Type == mission.TypeCoin:
		return "$"
	case c.Type != "":
		return string(c.Type)
	default:
		return "?"
	}
}

// Bullet is a projectile in flight.
type Bullet struct {
	ID     uint64
	X, Y   float64
	VX, VY float64
}

// Explosion is the transient effect left by a destroyed enemy.
type Explosion struct {
	ID      uint64
	EnemyID int
	X, Y    float64 // center
	Size    float64
}

// GameState holds the resources and flags of a session.
type GameState struct {
	Lives           int
	Coins           int
	Treasures       int
	EquationsSolved int
	Ammo            int
	CurrentStep     int

	IsPaused       bool
	IsGameOver     bool
	IsComplete     bool
	IsInvulnerable bool
	HelperActive   bool
	MusicOn        bool
}

// WorldState is the single mutable aggregate of a session. Every subsystem
// mutates it through the Rules transition functions.
type WorldState struct {
	Mission      mission.Mission
	Character    Character
	Platforms    []Platform
	Enemies      []Enemy
	Collectibles []Collectible
	Bullets      []Bullet
	Explosions   []Explosion
	State        GameState

	// Collected lists the labels of recent pickups, newest first.
	Collected []string

	// Locked is the completion lock: set on first contact with the finish
	// flag and never cleared.
	Locked bool
	Debug  bool

	lastShot time.Duration // session time of the last shot
	hasShot  bool
	nextID   uint64
}

// Frozen reports whether gameplay subsystems must skip their tick.
func (w *WorldState) Frozen() bool {
	return w.State.IsPaused || w.State.IsGameOver || w.State.IsComplete || w.Locked
}

// Vanishing reports whether an enemy destruction is still in progress: an
// enemy is Dying or its explosion has not expired yet.
func (w *WorldState) Vanishing() bool {
	if len(w.Explosions) > 0 {
		return true
	}
	for _, e := range w.Enemies {
		if e.Life == EnemyDying {
			return true
		}
	}
	return false
}

// Camera returns the horizontal scroll offset.
func (w *WorldState) Camera(lead float64) float64 {
	return max(0, w.Character.X-lead)
}

// RemoveExplosion drops the explosion with the given id. It reports whether
// it was present.
func (w *WorldState) RemoveExplosion(id uint64) bool {
	for i, e := range w.Explosions {
		if e.ID == id {
			w.Explosions = append(w.Explosions[:i], w.Explosions[i+1:]...)
			return true
		}
	}
	return false
}

// CurrentStep returns the step shown in the side panel, if the mission has any.
func (w *WorldState) CurrentStep() (mission.Step, bool) {
	steps := w.Mission.Steps
	if len(steps) == 0 {
		return mission.Step{}, false
	}
	i := core.Clamp(w.State.CurrentStep, 0, len(steps)-1)
	return steps[i], true
}

func (w *WorldState) newID() uint64 {
	w.nextID++
	return w.nextID
}
