package ecuations

import (
	"fmt"

	"github.com/vovakirdan/ecuations-d/internal/config"
	"github.com/vovakirdan/ecuations-d/internal/mission"
)

// groundBonusSlots places the three ground coins: fraction of the world
// width and height above ground level.
var groundBonusSlots = []struct {
	frac float64
	lift float64
}{
	{0.25, 40},
	{0.50, 70},
	{0.75, 50},
}

// BuildWorld converts a mission descriptor into the initial world of a
// session: mission placements, one bonus coin above every platform, three
// ground coins, enemies aligned to the ground, and the character at the
// start position.
func BuildWorld(m mission.Mission, cfg config.EcuationsConfig) *WorldState {
	w := &WorldState{Mission: m}
	baseline := cfg.World.Baseline()

	w.Character = Character{
		X:         cfg.Character.StartX,
		Y:         baseline,
		Direction: 1,
		Grounded:  true,
	}

	w.Platforms = make([]Platform, 0, len(m.Platforms))
	for _, p := range m.Platforms {
		w.Platforms = append(w.Platforms, Platform{
			ID: p.ID, X: p.X, Y: p.Y, Width: p.Width, Height: p.Height,
		})
	}

	w.Collectibles = make([]Collectible, 0, len(m.Collectibles)+len(m.Platforms)+len(groundBonusSlots))
	for _, c := range m.Collectibles {
		w.Collectibles = append(w.Collectibles, Collectible{
			ID:     fmt.Sprintf("%s-%d", m.ID, c.ID),
			X:      c.X,
			Y:      c.Y,
			Symbol: c.Symbol,
			Type:   c.Type,
			Value:  c.Value,
			Size:   itemSize(cfg, c.Type),
		})
	}

	coin := cfg.Collectibles.CoinSize
	for _, p := range m.Platforms {
		w.Collectibles = append(w.Collectibles, Collectible{
			ID:    fmt.Sprintf("%s-coin-platform-%d", m.ID, p.ID),
			X:     p.X + p.Width/2 - coin/2,
			Y:     p.Y - coin - cfg.Collectibles.BonusCoinLift,
			Type:  mission.TypeCoin,
			Value: cfg.Collectibles.BonusCoinValue,
			Size:  coin,
		})
	}
	for i, slot := range groundBonusSlots {
		w.Collectibles = append(w.Collectibles, Collectible{
			ID:    fmt.Sprintf("%s-coin-bonus-%d", m.ID, i+1),
			X:     cfg.World.Width*slot.frac - coin/2,
			Y:     cfg.World.GroundLevel - coin - slot.lift,
			Type:  mission.TypeCoin,
			Value: cfg.Collectibles.BonusCoinValue,
			Size:  coin,
		})
	}

	w.Enemies = make([]Enemy, 0, len(m.Enemies))
	for _, e := range m.Enemies {
		metrics := cfg.Enemies.MetricsFor(e.Type)
		w.Enemies = append(w.Enemies, Enemy{
			ID:      e.ID,
			X:       e.X,
			Y:       baseline - metrics.Height + metrics.FloorOffset,
			Type:    e.Type,
			Speed:   e.Speed * cfg.Enemies.SpeedMultiplier,
			Life:    EnemyAlive,
			Metrics: metrics,
		})
	}

	w.State = GameState{
		Lives: cfg.Character.StartLives,
		Ammo:  cfg.Weapon.InitialAmmo,
	}
	return w
}

func itemSize(cfg config.EcuationsConfig, t mission.CollectibleType) float64 {
	if t == mission.TypeCoin {
		return cfg.Collectibles.CoinSize
	}
	return cfg.Collectibles.ItemSize
}
