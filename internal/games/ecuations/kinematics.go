package ecuations

import (
	"github.com/vovakirdan/ecuations-d/internal/config"
	"github.com/vovakirdan/ecuations-d/internal/core"
)

// Rules holds the tuning the transition functions read. Each method
// advances one subsystem of a WorldState by one tick of its own loop.
type Rules struct {
	cfg config.EcuationsConfig
}

// NewRules creates the transition functions for cfg.
func NewRules(cfg config.EcuationsConfig) Rules {
	return Rules{cfg: cfg}
}

// Config returns the tuning in use.
func (r Rules) Config() config.EcuationsConfig {
	return r.cfg
}

// Controls is the input a kinematics tick consumes.
type Controls struct {
	Left, Right bool // held
	Jump        bool // pressed since the previous kinematics tick
}

// CharacterBox returns the character hitbox: the sprite box inset by the
// configured margins, bottom-anchored at the feet.
func (r Rules) CharacterBox(c Character) core.Box {
	ch := r.cfg.Character
	sprite := core.NewBox(c.X, c.Y-ch.Height, ch.Width, ch.Height)
	return sprite.Inset(ch.CollisionInsetX, ch.CollisionInsetY)
}

// StepCharacter advances the character one kinematics tick. Horizontal
// input is resolved before vertical physics and platform support before
// ground support. It reports whether a jump started.
func (r Rules) StepCharacter(w *WorldState, in Controls) bool {
	if w.Frozen() {
		return false
	}
	ph := r.cfg.Physics
	ch := r.cfg.Character
	c := &w.Character

	switch {
	case in.Left:
		c.VX = -ph.MoveSpeed
		c.Direction = -1
	case in.Right:
		c.VX = ph.MoveSpeed
		c.Direction = 1
	default:
		c.VX = 0
	}

	jumped := false
	if in.Jump && c.Grounded {
		c.VY = ph.JumpPower
		c.Jumping = true
		c.Grounded = false
		jumped = true
	}

	prevBottom := c.Y
	c.VY += ph.Gravity
	c.Y += c.VY

	onPlatform := false
	if c.VY >= 0 {
		feet := r.CharacterBox(Character{X: c.X + c.VX, Y: c.Y})
		for _, p := range w.Platforms {
			top := p.Y
			if prevBottom > top || c.Y < top {
				continue
			}
			overlap := core.SpanOverlap(feet.X, feet.Right(),
				p.X+ch.SupportInset, p.X+p.Width-ch.SupportInset)
			if overlap < ch.MinSupportOverlap {
				continue
			}
			c.Y = top
			c.VY = 0
			c.Jumping = false
			c.Grounded = true
			onPlatform = true
			break
		}
	}

	if !onPlatform {
		if baseline := r.cfg.World.Baseline(); c.Y >= baseline {
			c.Y = baseline
			c.VY = 0
			c.Jumping = false
			c.Grounded = true
		} else {
			c.Grounded = false
		}
	}

	c.X = core.ClampF(c.X+c.VX, 0, r.cfg.World.Width-ch.Width)
	return jumped
}
