package repository

import (
	"path/filepath"

	"ledger/internal/entities"
)

// ProtocolRepository persists Protocols. Fully immutable after creation —
// no mutators at all.
type ProtocolRepository struct {
	store *store[entities.Protocol]
}

func NewProtocolRepository(dir string) (*ProtocolRepository, error) {
	s, err := newStore(filepath.Join(dir, "protocols.json"), func(p entities.Protocol) string { return p.ID })
	if err != nil {
		return nil, err
	}
	return &ProtocolRepository{store: s}, nil
}

func (r *ProtocolRepository) Create(p entities.Protocol) error {
	return r.store.create(p)
}

func (r *ProtocolRepository) GetByID(id string) (entities.Protocol, bool) {
	return r.store.getByID(id)
}

func (r *ProtocolRepository) List(filter func(entities.Protocol) bool) []entities.Protocol {
	return r.store.list(filter)
}

// ByEpisodeID returns the (at most one) Protocol for episodeID.
func (r *ProtocolRepository) ByEpisodeID(episodeID string) (entities.Protocol, bool) {
	matches := r.store.list(func(p entities.Protocol) bool { return p.EpisodeID == episodeID })
	if len(matches) == 0 {
		return entities.Protocol{}, false
	}
	return matches[0], true
}
