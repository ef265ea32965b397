package strategy

// Store exposes section retrieval for HTTP handlers.
type Store interface {
	List() []Section
	FindByID(id string) (Section, bool)
}

// MemoryStore implements Store with an in-memory slice; the dashboard content
// is fixed copy, so no durable backing is needed.
type MemoryStore struct {
	items []Section
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied sections.
func NewMemoryStore(items []Section) *MemoryStore {
	return &MemoryStore{items: append([]Section(nil), items...)}
}

// List returns the predefined section list.
func (s *MemoryStore) List() []Section {
	return append([]Section(nil), s.items...)
}

// FindByID looks up a section by identifier.
func (s *MemoryStore) FindByID(id string) (Section, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Section{}, false
}
