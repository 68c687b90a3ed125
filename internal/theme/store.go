package theme

import "slices"

// Store is a named, ordered collection of themes.
type Store struct {
	Name   string
	themes []Theme
}

// NewStore creates a store holding the given themes. With no themes the
// built-ins are used.
func NewStore(name string, themes ...Theme) *Store {
	if len(themes) == 0 {
		themes = Builtins()
	}
	return &Store{Name: name, themes: slices.Clone(themes)}
}

// Themes returns the themes in store order.
func (s *Store) Themes() []Theme {
	return slices.Clone(s.themes)
}

// Lookup finds a theme by name.
func (s *Store) Lookup(name string) (Theme, bool) {
	i := s.index(name)
	if i < 0 {
		return Theme{}, false
	}
	return s.themes[i], true
}

// Add validates t and stores it, replacing any theme with the same name.
func (s *Store) Add(t Theme) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if i := s.index(t.Name); i >= 0 {
		s.themes[i] = t
		return nil
	}
	s.themes = append(s.themes, t)
	return nil
}

// Remove deletes the named theme and reports whether it existed.
func (s *Store) Remove(name string) bool {
	i := s.index(name)
	if i < 0 {
		return false
	}
	s.themes = slices.Delete(s.themes, i, i+1)
	return true
}

func (s *Store) index(name string) int {
	return slices.IndexFunc(s.themes, func(t Theme) bool { return t.Name == name })
}
