package repository

import (
	"fmt"
	"path/filepath"
	"time"

	"ledger/internal/corerr"
	"ledger/internal/entities"
)

// EpisodeRepository persists Episodes. Append-only except for the narrow
// AdvanceState mutator.
type EpisodeRepository struct {
	store *store[entities.Episode]
}

func NewEpisodeRepository(dir string) (*EpisodeRepository, error) {
	s, err := newStore(filepath.Join(dir, "episodes.json"), func(e entities.Episode) string { return e.ID })
	if err != nil {
		return nil, err
	}
	return &EpisodeRepository{store: s}, nil
}

func (r *EpisodeRepository) Create(e entities.Episode) error {
	return r.store.create(e)
}

func (r *EpisodeRepository) GetByID(id string) (entities.Episode, bool) {
	return r.store.getByID(id)
}

func (r *EpisodeRepository) List(filter func(entities.Episode) bool) []entities.Episode {
	return r.store.list(filter)
}

// BySituationID returns the (at most one) Episode referencing situationID.
func (r *EpisodeRepository) BySituationID(situationID string) (entities.Episode, bool) {
	matches := r.store.list(func(e entities.Episode) bool { return e.ReferencedSituationID == situationID })
	if len(matches) == 0 {
		return entities.Episode{}, false
	}
	return matches[0], true
}

// AdvanceState enforces monotonic state transitions and stamps the
// corresponding timestamp field (DecidedAt, ObservationStartedAt, or
// ClosedAt) for the state reached.
func (r *EpisodeRepository) AdvanceState(id string, to entities.EpisodeState, at time.Time) (entities.Episode, error) {
	return r.store.update(id, func(e entities.Episode) (entities.Episode, error) {
		if !e.State.CanAdvanceTo(to) {
			return e, corerr.State("ILLEGAL_TRANSITION",
				fmt.Sprintf("episode %s cannot move from %s to %s", id, e.State, to)).
				WithField("current", e.State.String()).WithField("requested", to.String())
		}
		e.State = to
		switch to {
		case entities.EpisodeDecided:
			e.DecidedAt = at
		case entities.EpisodeUnderObservation:
			e.ObservationStartedAt = at
		case entities.EpisodeClosed:
			e.ClosedAt = at
		}
		return e, nil
	})
}
