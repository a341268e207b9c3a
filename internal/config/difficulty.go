package config

import "fmt"

// DifficultyPreset adjusts a loaded config for a quick change of challenge.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"   // extra lives, slower enemies, longer grace
	DifficultyNormal DifficultyPreset = "normal" // config as loaded
	DifficultyHard   DifficultyPreset = "hard"   // one life, faster enemies, short grace
)

// ParseDifficultyPreset maps a CLI value to a preset. Empty means normal.
func ParseDifficultyPreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyDifficulty modifies cfg in place according to preset.
func ApplyDifficulty(cfg *EcuationsConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Character.StartLives = max(cfg.Character.StartLives, cfg.Helper.MaxLives)
		cfg.Enemies.SpeedMultiplier *= 0.5
		cfg.Timers.InvulnerabilityMS = cfg.Timers.InvulnerabilityMS * 3 / 2
	case DifficultyHard:
		cfg.Character.StartLives = 1
		cfg.Enemies.SpeedMultiplier *= 2
		cfg.Timers.InvulnerabilityMS /= 2
	}
}
