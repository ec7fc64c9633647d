package repository

import (
	"path/filepath"

	"ledger/internal/entities"
)

// DecisionRepository persists Decisions. Immutable after creation.
type DecisionRepository struct {
	store *store[entities.Decision]
}

func NewDecisionRepository(dir string) (*DecisionRepository, error) {
	s, err := newStore(filepath.Join(dir, "decisions.json"), func(d entities.Decision) string { return d.ID })
	if err != nil {
		return nil, err
	}
	return &DecisionRepository{store: s}, nil
}

func (r *DecisionRepository) Create(d entities.Decision) error {
	return r.store.create(d)
}

func (r *DecisionRepository) GetByID(id string) (entities.Decision, bool) {
	return r.store.getByID(id)
}

func (r *DecisionRepository) List(filter func(entities.Decision) bool) []entities.Decision {
	return r.store.list(filter)
}

// ByEpisodeID returns the (at most one) Decision for episodeID.
func (r *DecisionRepository) ByEpisodeID(episodeID string) (entities.Decision, bool) {
	matches := r.store.list(func(d entities.Decision) bool { return d.EpisodeID == episodeID })
	if len(matches) == 0 {
		return entities.Decision{}, false
	}
	return matches[0], true
}
