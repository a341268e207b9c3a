package mission

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Parse decodes a mission from YAML or JSON, chosen by file extension,
// and validates it.
func Parse(data []byte, ext string) (Mission, error) {
	var m Mission
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return Mission{}, fmt.Errorf("yaml decode: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return Mission{}, fmt.Errorf("json decode: %w", err)
		}
	default:
		return Mission{}, fmt.Errorf("unsupported extension: %s", ext)
	}

	if err := Validate(m); err != nil {
		return Mission{}, err
	}
	return m, nil
}

// IsMissionFile reports whether path has a supported extension.
func IsMissionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadFile loads and validates a single mission file.
func LoadFile(path string) (Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mission{}, fmt.Errorf("mission: reading %s: %w", path, err)
	}
	m, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Mission{}, fmt.Errorf("mission: %s: %w", path, err)
	}
	m.FilePath = path
	return m, nil
}

// FileResult is the outcome of loading one file during a directory scan.
type FileResult struct {
	Path    string
	Mission Mission
	Err     error
}

// Loader loads missions from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// Scan loads every mission file under Root and reports each result,
// including failures, sorted by path.
func (l *Loader) Scan() ([]FileResult, error) {
	var results []FileResult

	err := filepath.WalkDir(l.Root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsMissionFile(p) {
			return nil
		}
		m, loadErr := LoadFile(p)
		results = append(results, FileResult{Path: p, Mission: m, Err: loadErr})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mission: walking directory %s: %w", l.Root, err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// LoadAll returns the valid missions under Root. Invalid files are skipped.
func (l *Loader) LoadAll() ([]Mission, error) {
	results, err := l.Scan()
	if err != nil {
		return nil, err
	}
	missions := make([]Mission, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			missions = append(missions, r.Mission)
		}
	}
	sortMissions(missions)
	return missions, nil
}

// LoadByID loads the mission with the given id from Root.
func (l *Loader) LoadByID(id string) (Mission, error) {
	missions, err := l.LoadAll()
	if err != nil {
		return Mission{}, err
	}
	for _, m := range missions {
		if m.ID == id {
			return m, nil
		}
	}
	return Mission{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Builtin returns the missions compiled into the binary.
func Builtin() ([]Mission, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("mission: reading built-in catalog: %w", err)
	}

	missions := make([]Mission, 0, len(entries))
	for _, e := range entries {
		name := path.Join("builtin", e.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("mission: reading %s: %w", name, err)
		}
		m, err := Parse(data, path.Ext(name))
		if err != nil {
			return nil, fmt.Errorf("mission: built-in %s: %w", name, err)
		}
		missions = append(missions, m)
	}
	sortMissions(missions)
	return missions, nil
}

// sortMissions orders by Order, then id. Missions without an order go last.
func sortMissions(ms []Mission) {
	sort.SliceStable(ms, func(i, j int) bool {
		oi, oj := ms[i].Order, ms[j].Order
		if (oi == 0) != (oj == 0) {
			return oi != 0
		}
		if oi != oj {
			return oi < oj
		}
		return ms[i].ID < ms[j].ID
	})
}
