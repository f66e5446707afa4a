package state

import (
	"strings"
	"sync"

	"github.com/five82/storeadmin/internal/catalog"
)

// Theme is the console color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a config value to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Snapshot is a deep copy of the application state. It is also the
// persisted form.
type Snapshot struct {
	Theme    Theme        `json:"theme"`
	Products ProductState `json:"products"`
	Users    UserState    `json:"users"`

	// Version counts store mutations. It is not persisted.
	Version uint64 `json:"-"`
}

// Store owns the application state. The zero value is ready to use with the
// light theme and every tracker idle.
type Store struct {
	mu       sync.RWMutex
	theme    Theme
	products ProductState
	users    UserState
	version  uint64
}

// NewStore returns an empty store using theme.
func NewStore(theme Theme) *Store {
	return &Store{theme: theme}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Theme:    s.themeLocked(),
		Products: s.products.clone(),
		Users:    s.users.clone(),
		Version:  s.version,
	}
}

// Restore replaces the whole state with snap. Pending trackers come back idle
// and filtered lists are recomputed from the canonical data. Restore does not
// count as a mutation.
func (s *Store) Restore(snap Snapshot) {
	products := snap.Products.clone()
	users := snap.Users.clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	products.adopt(s.products)
	users.adopt(s.users)
	s.products = products
	s.users = users
	s.theme = ParseTheme(string(snap.Theme))
}

// Version returns the mutation counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Theme returns the active theme.
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.themeLocked()
}

func (s *Store) themeLocked() Theme {
	if s.theme == "" {
		return ThemeLight
	}
	return s.theme
}

// ChangeTheme switches between light and dark and returns the new theme.
func (s *Store) ChangeTheme() Theme {
	var next Theme
	s.mutate(func() {
		next = s.themeLocked().Toggle()
		s.theme = next
	})
	return next
}

// SetProductFilter merges the set dimensions of patch into the product filter.
func (s *Store) SetProductFilter(patch ProductFilterPatch) {
	s.mutate(func() { s.products.setFilter(patch) })
}

// ClearProductFilter drops every product filter constraint.
func (s *Store) ClearProductFilter() {
	empty := ""
	s.SetProductFilter(ProductFilterPatch{Query: &empty, Category: &empty})
}

// SetUserFilter replaces the user query.
func (s *Store) SetUserFilter(query string) {
	s.mutate(func() { s.users.setFilter(query) })
}

// ToggleFavorite inverts the favorite mark of the product with id. It reports
// false when the product is not in the canonical list.
func (s *Store) ToggleFavorite(id int) bool {
	var ok bool
	s.mutate(func() { ok = s.products.toggleFavorite(id) })
	return ok
}

// ResetProduct returns the named product trackers to idle.
func (s *Store) ResetProduct(which ...ProductTracker) {
	s.mutate(func() {
		for _, w := range which {
			s.products.reset(w)
		}
	})
}

// ResetUser returns the named user trackers to idle.
func (s *Store) ResetUser(which ...UserTracker) {
	s.mutate(func() {
		for _, w := range which {
			s.users.reset(w)
		}
	})
}

// Product returns the canonical product with id.
func (s *Store) Product(id int) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.Find(id)
}

// User returns the canonical user with id.
func (s *Store) User(id int) (catalog.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.Find(id)
}

func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	s.version++
}

// settle runs a terminal reducer. Dropped events leave the version alone
// unless they still patched a canonical list.
func (s *Store) settle(fn func() Outcome) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	edits := s.products.edits + s.users.edits
	out := fn()
	if out != OutcomeStale || s.products.edits+s.users.edits != edits {
		s.version++
	}
	return out
}
