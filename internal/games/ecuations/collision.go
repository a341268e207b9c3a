package ecuations

import (
	"github.com/vovakirdan/ecuations-d/internal/core"
	"github.com/vovakirdan/ecuations-d/internal/mission"
)

// FlagBox returns the finish flag rectangle, standing on the ground at the
// right end of the world.
func (r Rules) FlagBox() core.Box {
	g := r.cfg.Goal
	left := r.cfg.World.Width - (g.FlagWidth + g.Margin)
	top := r.cfg.World.GroundLevel - g.FlagHeight
	return core.BoxFromEdges(left, top, left+g.FlagWidth, r.cfg.World.Baseline())
}

// ResolvePickups collects every item the character touches and applies its
// effect. It returns the collected items in world order.
func (r Rules) ResolvePickups(w *WorldState) []Collectible {
	if w.Frozen() {
		return nil
	}
	body := r.CharacterBox(w.Character)

	var picked []Collectible
	kept := w.Collectibles[:0]
	for _, item := range w.Collectibles {
		if !body.Touches(item.Box()) {
			kept = append(kept, item)
			continue
		}
		picked = append(picked, item)
		r.applyPickup(w, item)
	}
	w.Collectibles = kept
	return picked
}

func (r Rules) applyPickup(w *WorldState, item Collectible) {
	st := &w.State
	switch item.Type {
	case mission.TypeCoin:
		v := item.Value
		if v == 0 {
			v = r.cfg.Collectibles.CoinValue
		}
		st.Coins += v
	case mission.TypeSpecial:
		st.Treasures++
		st.EquationsSolved++
		if n := len(w.Mission.Steps); n > 0 {
			st.CurrentStep = min(st.CurrentStep+1, n-1)
		}
	case mission.TypeAmmo:
		v := item.Value
		if v == 0 {
			v = r.cfg.Weapon.AmmoPickup
		}
		st.Ammo = min(st.Ammo+v, r.cfg.Weapon.MaxAmmo)
	}

	w.Collected = append([]string{item.Label()}, w.Collected...)
	if limit := r.cfg.Collectibles.LogSize; len(w.Collected) > limit {
		w.Collected = w.Collected[:limit]
	}
}

// ResolveDamage applies at most one enemy hit. Nothing happens while the
// character is invulnerable or an enemy is vanishing. It reports whether a
// hit landed; the caller owns the invulnerability timer.
func (r Rules) ResolveDamage(w *WorldState) bool {
	if w.Frozen() || w.State.IsInvulnerable || w.Vanishing() {
		return false
	}
	body := r.CharacterBox(w.Character)
	for _, e := range w.Enemies {
		if e.Life != EnemyAlive || !body.Touches(e.Box()) {
			continue
		}
		st := &w.State
		if st.Lives > 0 {
			st.Lives--
			st.IsInvulnerable = true
		}
		if st.Lives == 0 {
			st.IsGameOver = true
		}
		return true
	}
	return false
}

// CheckGoal engages the completion lock on the first substantial contact
// with the finish flag. It reports true only for that first contact.
func (r Rules) CheckGoal(w *WorldState) bool {
	if w.Frozen() {
		return false
	}
	flag := r.FlagBox().Inset(r.cfg.Goal.Pad, 0)
	if !r.CharacterBox(w.Character).Touches(flag) {
		return false
	}
	w.Locked = true
	return true
}
