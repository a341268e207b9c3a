// Package mission defines the mission descriptor consumed by the game and
// loads it from the embedded catalog, a user directory or single files.
package mission

import "errors"

var (
	// ErrNotFound is returned when no mission has the requested id.
	ErrNotFound = errors.New("mission not found")
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("mission invalid")
)

// CollectibleType classifies a pickup.
type CollectibleType string

const (
	TypeCoin    CollectibleType = "coin"
	TypeFruit   CollectibleType = "fruit"
	TypePearl   CollectibleType = "pearl"
	TypeSpecial CollectibleType = "special"
	TypeAmmo    CollectibleType = "ammo"
)

// Known reports whether t is one of the recognised collectible types.
func (t CollectibleType) Known() bool {
	switch t {
	case TypeCoin, TypeFruit, TypePearl, TypeSpecial, TypeAmmo:
		return true
	}
	return false
}

// Step is one stage of the worked solution shown beside the level.
type Step struct {
	Step       int    `yaml:"step" json:"step"`
	Title      string `yaml:"title" json:"title"`
	Expression string `yaml:"expression" json:"expression"`
}

// Collectible is a pickup placed in the level. X, Y is the top-left corner.
type Collectible struct {
	ID     int             `yaml:"id" json:"id"`
	X      float64         `yaml:"x" json:"x"`
	Y      float64         `yaml:"y" json:"y"`
	Symbol string          `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Type   CollectibleType `yaml:"type" json:"type" jsonschema:"enum=coin,enum=fruit,enum=pearl,enum=special,enum=ammo"`
	Value  int             `yaml:"value,omitempty" json:"value,omitempty"`
}

// Enemy is a hazard placed in the level. Y is re-aligned to the ground
// when the world is built.
type Enemy struct {
	ID    int     `yaml:"id" json:"id"`
	X     float64 `yaml:"x" json:"x"`
	Y     float64 `yaml:"y,omitempty" json:"y,omitempty"`
	Type  string  `yaml:"type" json:"type" jsonschema:"description=spike and moving have dedicated metrics; anything else uses the default"`
	Speed float64 `yaml:"speed,omitempty" json:"speed,omitempty"`
}

// Platform is a solid ledge. Y is its top edge.
type Platform struct {
	ID     int     `yaml:"id" json:"id"`
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Mission is a level descriptor. It is read-only once loaded.
type Mission struct {
	ID           string        `yaml:"id" json:"id"`
	Title        string        `yaml:"title" json:"title"`
	Equation     string        `yaml:"equation" json:"equation"`
	Order        int           `yaml:"order,omitempty" json:"order,omitempty" jsonschema:"description=position in the mission menu; missions without it sort last by id"`
	Steps        []Step        `yaml:"steps" json:"steps"`
	Collectibles []Collectible `yaml:"collectibles" json:"collectibles"`
	Enemies      []Enemy       `yaml:"enemies" json:"enemies"`
	Platforms    []Platform    `yaml:"platforms" json:"platforms"`

	// FilePath is where the mission was loaded from; empty for built-ins.
	FilePath string `yaml:"-" json:"-"`
}
