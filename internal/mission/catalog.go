package mission

import (
	"fmt"
	"os"
	"sync"
)

// Catalog is the set of playable missions: the built-ins plus any found in
// a user directory. A user mission with a built-in id replaces it.
type Catalog struct {
	mu       sync.RWMutex
	missions map[string]Mission
	order    []string
}

// NewCatalog builds a catalog from the given missions, later entries
// replacing earlier ones with the same id.
func NewCatalog(ms ...Mission) *Catalog {
	c := &Catalog{missions: make(map[string]Mission)}
	c.add(ms)
	return c
}

// LoadCatalog loads the built-in missions and, when userDir is not empty
// and exists, the missions under it.
func LoadCatalog(userDir string) (*Catalog, error) {
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	c := NewCatalog(builtin...)

	if userDir == "" {
		return c, nil
	}
	if _, err := os.Stat(userDir); os.IsNotExist(err) {
		return c, nil
	}
	user, err := NewLoader(userDir).LoadAll()
	if err != nil {
		return nil, fmt.Errorf("mission: loading user missions: %w", err)
	}
	c.add(user)
	return c, nil
}

func (c *Catalog) add(ms []Mission) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, m := range ms {
		c.missions[m.ID] = m
	}
	all := make([]Mission, 0, len(c.missions))
	for _, m := range c.missions {
		all = append(all, m)
	}
	sortMissions(all)
	c.order = c.order[:0]
	for _, m := range all {
		c.order = append(c.order, m.ID)
	}
}

// Get returns the mission with the given id.
func (c *Catalog) Get(id string) (Mission, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.missions[id]
	if !ok {
		return Mission{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m, nil
}

// List returns every mission in menu order.
func (c *Catalog) List() []Mission {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Mission, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.missions[id])
	}
	return out
}

// Len returns the number of missions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.missions)
}
