package backend

import (
	"github.com/wippyai/ffi-bindgen/errors"
)

// HelperSet tracks helper names emitted during one generation run. Each
// rendered name must belong to exactly one type shape.
type HelperSet struct {
	owners map[string]string
	order  []string
}

// NewHelperSet creates an empty set.
func NewHelperSet() *HelperSet {
	return &HelperSet{owners: make(map[string]string)}
}

// Claim records that helper name belongs to the type with canonical key.
// It returns true the first time a name is claimed and false when the same
// type claims it again. A name claimed by two distinct types is a
// canonical collision.
func (s *HelperSet) Claim(name, key string) (bool, error) {
	if owner, ok := s.owners[name]; ok {
		if owner != key {
			return false, errors.Collision(name, owner, key)
		}
		return false, nil
	}
	s.owners[name] = key
	s.order = append(s.order, name)
	return true, nil
}

// Contains reports whether name was claimed.
func (s *HelperSet) Contains(name string) bool {
	_, ok := s.owners[name]
	return ok
}

// Names returns claimed names in claim order.
func (s *HelperSet) Names() []string {
	return append([]string(nil), s.order...)
}

func (s *HelperSet) Len() int { return len(s.order) }
