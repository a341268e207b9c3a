package ecuations

import (
	"time"

	"github.com/vovakirdan/ecuations-d/internal/core"
)

// Muzzle returns the spawn point and direction of a shot fired now.
// The direction follows the horizontal velocity, falling back to facing.
func (r Rules) Muzzle(c Character) (x, y float64, dir int) {
	wp := r.cfg.Weapon
	ch := r.cfg.Character

	dir = c.Direction
	switch {
	case c.VX > 0:
		dir = 1
	case c.VX < 0:
		dir = -1
	case dir == 0:
		dir = 1
	}

	tip := wp.OffsetX + wp.Width/2
	if dir < 0 {
		tip = ch.Width - tip
	}
	x = c.X + tip + wp.TipAdvance*float64(dir)
	x = core.ClampF(x, c.X-wp.MuzzleClamp, c.X+ch.Width+wp.MuzzleClamp)
	y = c.Y - ch.Height + wp.OffsetY + wp.Height/2
	return x, y, dir
}

// Fire spawns a projectile unless the weapon is cooling down. Shots inside
// the cooldown are dropped. now is the session clock.
func (r Rules) Fire(w *WorldState, now time.Duration) bool {
	if w.Frozen() {
		return false
	}
	wp := r.cfg.Weapon
	cooldown := time.Duration(wp.CooldownMS) * time.Millisecond
	if w.hasShot && now-w.lastShot < cooldown {
		return false
	}
	if wp.ConsumeAmmo {
		if w.State.Ammo <= 0 {
			return false
		}
		w.State.Ammo--
	}

	x, y, dir := r.Muzzle(w.Character)
	w.Bullets = append(w.Bullets, Bullet{
		ID: w.newID(),
		X:  x,
		Y:  y,
		VX: wp.BulletSpeed * float64(dir),
	})
	w.lastShot = now
	w.hasShot = true
	return true
}

// StepProjectiles advances every bullet one tick and resolves hits against
// the enemies alive at the start of the tick. A bullet that hits is dropped
// and its enemy goes Dying, then Removed before the method returns.
// Bullets leaving the world are dropped without effect.
// It returns the explosions queued this tick.
func (r Rules) StepProjectiles(w *WorldState) []Explosion {
	if w.Frozen() {
		return nil
	}

	snapshot := make([]int, 0, len(w.Enemies))
	for i, e := range w.Enemies {
		if e.Life == EnemyAlive {
			snapshot = append(snapshot, i)
		}
	}

	tol := r.cfg.Weapon.HitTolerance
	width, height := r.cfg.World.Width, r.cfg.World.Height
	var queued []Explosion
	kept := w.Bullets[:0]

	for _, b := range w.Bullets {
		nx, ny := b.X+b.VX, b.Y+b.VY

		hit := false
		for _, i := range snapshot {
			e := &w.Enemies[i]
			if e.Life != EnemyAlive {
				continue
			}
			box := e.Box()
			if !box.Expand(tol).ContainsPoint(nx, ny) {
				continue
			}
			e.Life = EnemyDying
			cx, cy := box.Center()
			queued = append(queued, Explosion{
				ID:      w.newID(),
				EnemyID: e.ID,
				X:       cx,
				Y:       cy,
				Size:    max(box.W, box.H),
			})
			hit = true
			break
		}
		if hit {
			continue
		}

		if nx > 0 && nx < width && ny > 0 && ny < height {
			b.X, b.Y = nx, ny
			kept = append(kept, b)
		}
	}
	w.Bullets = kept

	if len(queued) > 0 {
		w.Explosions = append(w.Explosions, queued...)
		w.State.EquationsSolved += removeDying(w)
	}
	return queued
}

// removeDying removes Dying enemies from the world and returns how many.
func removeDying(w *WorldState) int {
	n := 0
	alive := w.Enemies[:0]
	for _, e := range w.Enemies {
		if e.Life == EnemyDying {
			e.Life = EnemyRemoved
			n++
			continue
		}
		alive = append(alive, e)
	}
	w.Enemies = alive
	return n
}
