package config

import (
	_ "embed"
)

//go:embed defaults/ecuations.yaml
var defaultEcuationsYAML []byte

// DefaultEcuationsConfig returns the built-in tuning.
func DefaultEcuationsConfig() EcuationsConfig {
	return EcuationsConfig{
		Physics: PhysicsConfig{
			Gravity:   0.8,
			JumpPower: -15,
			MoveSpeed: 5,
		},
		World: WorldConfig{
			Width:                2000,
			Height:               600,
			GroundLevel:          500,
			GroundBaselineOffset: 12,
			CameraLead:           400,
			PlatformVisualScale:  2,
		},
		Character: CharacterConfig{
			StartX:            100,
			Width:             128,
			Height:            160,
			SupportInset:      10,
			MinSupportOverlap: 6,
			StartLives:        3,
		},
		Weapon: WeaponConfig{
			OffsetX:      98,
			OffsetY:      60,
			Width:        200,
			Height:       78,
			TipAdvance:   6,
			MuzzleClamp:  4,
			BulletSpeed:  8,
			CooldownMS:   500,
			HitTolerance: 6,
			InitialAmmo:  10,
			MaxAmmo:      60,
			AmmoPickup:   6,
		},
		Enemies: EnemiesConfig{
			PatrolMargin:    50,
			SpeedMultiplier: 1,
			Default:         EnemyMetrics{Width: 118, Height: 118, FloorOffset: 46},
			Metrics: map[string]EnemyMetrics{
				"spike":  {Width: 118, Height: 118, FloorOffset: 46},
				"moving": {Width: 132, Height: 132, FloorOffset: 50},
			},
		},
		Collectibles: CollectiblesConfig{
			CoinSize:       48,
			ItemSize:       32,
			CoinValue:      1,
			BonusCoinValue: 5,
			BonusCoinLift:  12,
			LogSize:        8,
		},
		Goal: GoalConfig{
			FlagWidth:  120,
			FlagHeight: 240,
			Margin:     8,
			Pad:        24,
		},
		Timers: TimersConfig{
			InvulnerabilityMS: 2000,
			ExplosionMS:       400,
		},
		Loops: LoopsConfig{
			KinematicsHz:  30,
			EnemiesHz:     20,
			ProjectilesHz: 30,
			CollisionsHz:  10,
		},
		Input: InputConfig{
			HoldWindowMS: 400,
		},
		Helper: HelperConfig{
			MaxLives:   5,
			DurationMS: 5000,
		},
		Audio: AudioConfig{
			Enabled:        true,
			Volume:         0.3,
			MusicFrequency: 220,
			MusicVolume:    0.05,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultEcuationsYAML
}
