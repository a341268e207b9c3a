package mission

import (
	"errors"
	"fmt"
)

// ValidationError describes one problem with a mission descriptor.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrInvalid) match any validation error.
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Validate checks a mission for problems that would break a session.
// All problems are reported, joined into one error.
func Validate(m Mission) error {
	var errs []error
	add := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if m.ID == "" {
		add("MISSING_ID", "mission has no id")
	}
	if m.Title == "" {
		add("MISSING_TITLE", "mission %q has no title", m.ID)
	}

	seen := make(map[int]bool)
	for _, c := range m.Collectibles {
		if seen[c.ID] {
			add("DUPLICATE_ID", "collectible id %d used twice", c.ID)
		}
		seen[c.ID] = true
		if !c.Type.Known() {
			add("UNKNOWN_TYPE", "collectible %d has unknown type %q", c.ID, c.Type)
		}
		if c.Value < 0 {
			add("NEGATIVE_VALUE", "collectible %d has negative value %d", c.ID, c.Value)
		}
	}

	seen = make(map[int]bool)
	for _, e := range m.Enemies {
		if seen[e.ID] {
			add("DUPLICATE_ID", "enemy id %d used twice", e.ID)
		}
		seen[e.ID] = true
		if e.Type == "" {
			add("MISSING_TYPE", "enemy %d has no type", e.ID)
		}
	}

	seen = make(map[int]bool)
	for _, p := range m.Platforms {
		if seen[p.ID] {
			add("DUPLICATE_ID", "platform id %d used twice", p.ID)
		}
		seen[p.ID] = true
		if p.Width <= 0 || p.Height <= 0 {
			add("BAD_SIZE", "platform %d has non-positive size %vx%v", p.ID, p.Width, p.Height)
		}
	}

	for i, s := range m.Steps {
		if s.Step != i+1 {
			add("STEP_ORDER", "step %d is numbered %d", i+1, s.Step)
		}
	}

	return errors.Join(errs...)
}
