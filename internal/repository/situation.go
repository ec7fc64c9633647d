package repository

import (
	"fmt"
	"path/filepath"

	"ledger/internal/corerr"
	"ledger/internal/entities"
)

// SituationRepository persists Situations. Append-only except for the two
// narrow whitelisted mutators spec.md §4.1 names: append_attachment and
// advance_status.
type SituationRepository struct {
	store *store[entities.Situation]
}

// NewSituationRepository opens (or creates) the situations file under dir.
func NewSituationRepository(dir string) (*SituationRepository, error) {
	s, err := newStore(filepath.Join(dir, "situations.json"), func(s entities.Situation) string { return s.ID })
	if err != nil {
		return nil, err
	}
	return &SituationRepository{store: s}, nil
}

func (r *SituationRepository) Create(s entities.Situation) error {
	return r.store.create(s)
}

func (r *SituationRepository) GetByID(id string) (entities.Situation, bool) {
	return r.store.getByID(id)
}

func (r *SituationRepository) List(filter func(entities.Situation) bool) []entities.Situation {
	return r.store.list(filter)
}

// AppendAttachment appends an AnalysisAttachment. Attachments are never
// removed or edited in place — this only ever grows the slice.
func (r *SituationRepository) AppendAttachment(id string, attachment entities.AnalysisAttachment) (entities.Situation, error) {
	return r.store.update(id, func(s entities.Situation) (entities.Situation, error) {
		s.AnalysisAttachments = append(append([]entities.AnalysisAttachment(nil), s.AnalysisAttachments...), attachment)
		return s, nil
	})
}

// AdvanceStatus rejects non-forward moves.
func (r *SituationRepository) AdvanceStatus(id string, to entities.SituationStatus) (entities.Situation, error) {
	return r.store.update(id, func(s entities.Situation) (entities.Situation, error) {
		if !s.Status.CanAdvanceTo(to) {
			return s, corerr.State("ILLEGAL_TRANSITION",
				fmt.Sprintf("situation %s cannot move from %s to %s", id, s.Status, to)).
				WithField("current", s.Status.String()).WithField("requested", to.String())
		}
		s.Status = to
		return s, nil
	})
}
