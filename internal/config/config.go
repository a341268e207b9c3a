// Package config provides YAML-based tuning for the platformer: physics,
// world geometry, weapon, timers and loop rates.
package config

import (
	"errors"
	"fmt"
)

// EcuationsConfig contains every tunable of a game session.
type EcuationsConfig struct {
	Physics      PhysicsConfig      `yaml:"physics"`
	World        WorldConfig        `yaml:"world"`
	Character    CharacterConfig    `yaml:"character"`
	Weapon       WeaponConfig       `yaml:"weapon"`
	Enemies      EnemiesConfig      `yaml:"enemies"`
	Collectibles CollectiblesConfig `yaml:"collectibles"`
	Goal         GoalConfig         `yaml:"goal"`
	Timers       TimersConfig       `yaml:"timers"`
	Loops        LoopsConfig        `yaml:"loops"`
	Input        InputConfig        `yaml:"input"`
	Helper       HelperConfig       `yaml:"helper"`
	Audio        AudioConfig        `yaml:"audio"`
}

// PhysicsConfig defines character motion. Units are world pixels per
// kinematics tick.
type PhysicsConfig struct {
	Gravity   float64 `yaml:"gravity"`
	JumpPower float64 `yaml:"jump_power"` // negative: up
	MoveSpeed float64 `yaml:"move_speed"`
}

// WorldConfig defines the level bounds.
type WorldConfig struct {
	Width                float64 `yaml:"width"`
	Height               float64 `yaml:"height"`
	GroundLevel          float64 `yaml:"ground_level"`
	GroundBaselineOffset float64 `yaml:"ground_baseline_offset"`
	CameraLead           float64 `yaml:"camera_lead"`
	PlatformVisualScale  float64 `yaml:"platform_visual_scale"` // rendering only
}

// Baseline is the y-coordinate the character stands on when not on a platform.
func (w WorldConfig) Baseline() float64 {
	return w.GroundLevel + w.GroundBaselineOffset
}

// CharacterConfig defines the player sprite and collision box.
type CharacterConfig struct {
	StartX            float64 `yaml:"start_x"`
	Width             float64 `yaml:"width"`
	Height            float64 `yaml:"height"`
	CollisionInsetX   float64 `yaml:"collision_inset_x"`
	CollisionInsetY   float64 `yaml:"collision_inset_y"`
	SupportInset      float64 `yaml:"support_inset"`
	MinSupportOverlap float64 `yaml:"min_support_overlap"`
	StartLives        int     `yaml:"start_lives"`
}

// WeaponConfig defines where projectiles spawn and how they fly.
type WeaponConfig struct {
	OffsetX      float64 `yaml:"offset_x"`
	OffsetY      float64 `yaml:"offset_y"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	TipAdvance   float64 `yaml:"tip_advance"`
	MuzzleClamp  float64 `yaml:"muzzle_clamp"`
	BulletSpeed  float64 `yaml:"bullet_speed"`
	CooldownMS   int     `yaml:"cooldown_ms"`
	HitTolerance float64 `yaml:"hit_tolerance"`
	InitialAmmo  int     `yaml:"initial_ammo"`
	MaxAmmo      int     `yaml:"max_ammo"`
	AmmoPickup   int     `yaml:"ammo_pickup"` // used when an ammo item has no value
	ConsumeAmmo  bool    `yaml:"consume_ammo"`
}

// EnemyMetrics is the sprite size of an enemy type and the distance from
// its foot anchor down to the drawn floor line.
type EnemyMetrics struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	FloorOffset float64 `yaml:"floor_offset"`
}

// EnemiesConfig defines enemy sizes and patrol bounds.
type EnemiesConfig struct {
	PatrolMargin    float64                 `yaml:"patrol_margin"`
	SpeedMultiplier float64                 `yaml:"speed_multiplier"`
	Default         EnemyMetrics            `yaml:"default"`
	Metrics         map[string]EnemyMetrics `yaml:"metrics"`
}

// MetricsFor returns the metrics for an enemy type, falling back to Default.
func (e EnemiesConfig) MetricsFor(kind string) EnemyMetrics {
	if m, ok := e.Metrics[kind]; ok {
		return m
	}
	return e.Default
}

// CollectiblesConfig defines pickup sizes and bonus coins.
type CollectiblesConfig struct {
	CoinSize       float64 `yaml:"coin_size"`
	ItemSize       float64 `yaml:"item_size"`
	CoinValue      int     `yaml:"coin_value"` // used when a coin has no value
	BonusCoinValue int     `yaml:"bonus_coin_value"`
	BonusCoinLift  float64 `yaml:"bonus_coin_lift"` // gap between a platform top and its coin
	LogSize        int     `yaml:"log_size"`
}

// GoalConfig defines the finish flag near the right edge of the world.
type GoalConfig struct {
	FlagWidth  float64 `yaml:"flag_width"`
	FlagHeight float64 `yaml:"flag_height"`
	Margin     float64 `yaml:"margin"`
	Pad        float64 `yaml:"pad"`
}

// TimersConfig defines transient effect durations.
type TimersConfig struct {
	InvulnerabilityMS int `yaml:"invulnerability_ms"`
	ExplosionMS       int `yaml:"explosion_ms"`
}

// LoopsConfig defines the rate of each simulation subsystem.
type LoopsConfig struct {
	KinematicsHz  int `yaml:"kinematics_hz"`
	EnemiesHz     int `yaml:"enemies_hz"`
	ProjectilesHz int `yaml:"projectiles_hz"`
	CollisionsHz  int `yaml:"collisions_hz"`
}

// InputConfig tunes terminal input. Terminals report key presses but not
// releases, so a movement key counts as held for HoldWindowMS after its
// last press or auto-repeat.
type InputConfig struct {
	HoldWindowMS int `yaml:"hold_window_ms"`
}

// HelperConfig defines the helper robot that restores a life.
type HelperConfig struct {
	MaxLives   int `yaml:"max_lives"`
	DurationMS int `yaml:"duration_ms"`
}

// AudioConfig defines sound output.
type AudioConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Volume         float64 `yaml:"volume"`
	MusicFrequency float64 `yaml:"music_frequency"`
	MusicVolume    float64 `yaml:"music_volume"`
}

// ErrInvalidConfig is wrapped by Validate failures.
var ErrInvalidConfig = errors.New("config: invalid")

// Validate checks values the simulation cannot run without.
func (c EcuationsConfig) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world size %vx%v", ErrInvalidConfig, c.World.Width, c.World.Height)
	}
	if c.Character.Width <= 0 || c.Character.Height <= 0 {
		return fmt.Errorf("%w: character size %vx%v", ErrInvalidConfig, c.Character.Width, c.Character.Height)
	}
	if c.Character.Width > c.World.Width {
		return fmt.Errorf("%w: character wider than world", ErrInvalidConfig)
	}
	rates := map[string]int{
		"kinematics_hz":  c.Loops.KinematicsHz,
		"enemies_hz":     c.Loops.EnemiesHz,
		"projectiles_hz": c.Loops.ProjectilesHz,
		"collisions_hz":  c.Loops.CollisionsHz,
	}
	for name, hz := range rates {
		if hz <= 0 {
			return fmt.Errorf("%w: loops.%s must be positive, got %d", ErrInvalidConfig, name, hz)
		}
	}
	if c.Character.StartLives < 0 {
		return fmt.Errorf("%w: character.start_lives must not be negative", ErrInvalidConfig)
	}
	if c.Collectibles.LogSize < 0 {
		return fmt.Errorf("%w: collectibles.log_size must not be negative", ErrInvalidConfig)
	}
	return nil
}
