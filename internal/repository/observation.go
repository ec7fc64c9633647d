package repository

import (
	"path/filepath"

	"ledger/internal/entities"
)

// ObservationRepository persists ConsequenceObservations. Append-only.
type ObservationRepository struct {
	store *store[entities.ConsequenceObservation]
}

func NewObservationRepository(dir string) (*ObservationRepository, error) {
	s, err := newStore(filepath.Join(dir, "observations.json"),
		func(o entities.ConsequenceObservation) string { return o.ID })
	if err != nil {
		return nil, err
	}
	return &ObservationRepository{store: s}, nil
}

func (r *ObservationRepository) Create(o entities.ConsequenceObservation) error {
	return r.store.create(o)
}

func (r *ObservationRepository) GetByID(id string) (entities.ConsequenceObservation, bool) {
	return r.store.getByID(id)
}

func (r *ObservationRepository) List(filter func(entities.ConsequenceObservation) bool) []entities.ConsequenceObservation {
	return r.store.list(filter)
}

// ByContractID returns every observation registered against contractID, in
// append order.
func (r *ObservationRepository) ByContractID(contractID string) []entities.ConsequenceObservation {
	return r.store.list(func(o entities.ConsequenceObservation) bool { return o.ContractID == contractID })
}
