package repository

import (
	"path/filepath"

	"ledger/internal/entities"
)

// ContractRepository persists Contracts. Immutable after creation.
type ContractRepository struct {
	store *store[entities.Contract]
}

func NewContractRepository(dir string) (*ContractRepository, error) {
	s, err := newStore(filepath.Join(dir, "contracts.json"), func(c entities.Contract) string { return c.ID })
	if err != nil {
		return nil, err
	}
	return &ContractRepository{store: s}, nil
}

func (r *ContractRepository) Create(c entities.Contract) error {
	return r.store.create(c)
}

func (r *ContractRepository) GetByID(id string) (entities.Contract, bool) {
	return r.store.getByID(id)
}

func (r *ContractRepository) List(filter func(entities.Contract) bool) []entities.Contract {
	return r.store.list(filter)
}

// ByDecisionID returns the (at most one) Contract for decisionID.
func (r *ContractRepository) ByDecisionID(decisionID string) (entities.Contract, bool) {
	matches := r.store.list(func(c entities.Contract) bool { return c.DecisionID == decisionID })
	if len(matches) == 0 {
		return entities.Contract{}, false
	}
	return matches[0], true
}
