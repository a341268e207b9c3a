package ecuations

import (
	"github.com/vovakirdan/ecuations-d/internal/mission"
	"github.com/vovakirdan/ecuations-d/internal/registry"
)

// Register adds one registry entry per mission, in list order. Every game
// created from the registry shares opts.
func Register(missions []mission.Mission, opts Options) {
	for _, m := range missions {
		registry.Register(m.ID, func() registry.Game {
			return New(m, opts)
		})
	}
}

var _ registry.Game = (*Game)(nil)
