package performance

import "sync"

// DefaultsFunc supplies the lowest tier.
type DefaultsFunc func(class string) (Overrides, bool)

// Store holds the user and custom tiers. Every change bumps Revision.
type Store struct {
	mu       sync.RWMutex
	user     map[string]Overrides
	custom   map[string]Overrides
	defaults DefaultsFunc
	revision uint64
}

func NewStore() *Store {
	return &Store{
		user:     make(map[string]Overrides),
		custom:   make(map[string]Overrides),
		defaults: Builtin,
	}
}

// WithDefaults replaces the built-in default tier.
func (s *Store) WithDefaults(fn DefaultsFunc) *Store {
	s.mu.Lock()
	s.defaults = fn
	s.revision++
	s.mu.Unlock()
	return s
}

// SetUser replaces the user tier wholesale, as loaded from the ship
// document.
func (s *Store) SetUser(records map[string]Overrides) {
	user := make(map[string]Overrides, len(records))
	for name, o := range records {
		user[NormalizeName(name)] = o
	}
	s.mu.Lock()
	s.user = user
	s.revision++
	s.mu.Unlock()
}

// SetCustom registers overrides for one class, replacing any earlier
// record. It reports false for an empty name.
func (s *Store) SetCustom(class string, o Overrides) bool {
	class = NormalizeName(class)
	if class == "" {
		return false
	}
	s.mu.Lock()
	s.custom[class] = o
	s.revision++
	s.mu.Unlock()
	return true
}

func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Tiers returns the three records for a normalized class, highest first.
func (s *Store) Tiers(class string) (user, custom, def Overrides) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user = s.user[class]
	custom = s.custom[class]
	if s.defaults != nil {
		def, _ = s.defaults(class)
	}
	return user, custom, def
}

// User returns a copy of the user tier.
func (s *Store) User() map[string]Overrides {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Overrides, len(s.user))
	for k, v := range s.user {
		out[k] = v
	}
	return out
}
