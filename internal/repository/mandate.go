package repository

import (
	"path/filepath"
	"time"

	"ledger/internal/corerr"
	"ledger/internal/entities"
)

// MandateRepository persists AutonomyMandates. Append-only except for the
// five narrow whitelisted mutators spec.md §4.1 names plus RecordDegrade and
// MarkConsequenceApplied.
type MandateRepository struct {
	store *store[entities.AutonomyMandate]
}

func NewMandateRepository(dir string) (*MandateRepository, error) {
	s, err := newStore(filepath.Join(dir, "mandates.json"),
		func(m entities.AutonomyMandate) string { return m.ID })
	if err != nil {
		return nil, err
	}
	return &MandateRepository{store: s}, nil
}

func (r *MandateRepository) Create(m entities.AutonomyMandate) error {
	return r.store.create(m)
}

func (r *MandateRepository) GetByID(id string) (entities.AutonomyMandate, bool) {
	return r.store.getByID(id)
}

func (r *MandateRepository) List(filter func(entities.AutonomyMandate) bool) []entities.AutonomyMandate {
	return r.store.list(filter)
}

// ActiveByAgent returns every mandate for agentID whose status is active,
// regardless of temporal/usage activity — callers still run the activity
// check (internal/autonomy) against the returned mandates.
func (r *MandateRepository) ActiveByAgent(agentID string, _ time.Time) []entities.AutonomyMandate {
	return r.store.list(func(m entities.AutonomyMandate) bool {
		return m.AgentID == agentID && m.Status == entities.MandateActive
	})
}

// RecordRevocation marks a mandate revoked. Terminal: no-ops if already
// revoked or expired.
func (r *MandateRepository) RecordRevocation(id, by, reason string, at time.Time) (entities.AutonomyMandate, error) {
	return r.store.update(id, func(m entities.AutonomyMandate) (entities.AutonomyMandate, error) {
		if m.Status == entities.MandateRevoked || m.Status == entities.MandateExpired {
			return m, nil
		}
		m.Status = entities.MandateRevoked
		m.RevokedAt = &at
		m.RevokedBy = by
		m.RevocationReason = reason
		return m, nil
	})
}

// RecordExpiration marks a mandate expired for the given reason. Idempotent:
// a no-op (no change) if already expired or revoked.
func (r *MandateRepository) RecordExpiration(id string, reason entities.ExpireReason, at time.Time) (entities.AutonomyMandate, error) {
	return r.store.update(id, func(m entities.AutonomyMandate) (entities.AutonomyMandate, error) {
		if m.Status == entities.MandateExpired || m.Status == entities.MandateRevoked {
			return m, nil
		}
		m.Status = entities.MandateExpired
		m.ExpiredAt = &at
		m.ExpireReason = reason
		return m, nil
	})
}

// ConsumeUse atomically reads the current use count, increments it, and if
// the new value reaches max_uses flips status to expired(USES) — all in one
// critical section so two concurrent decision requests sharing a mandate
// cannot both succeed past the limit (spec.md §5, Atomic mandate
// consumption; spec.md §8 Scenario S3).
func (r *MandateRepository) ConsumeUse(id string, at time.Time) (entities.AutonomyMandate, error) {
	return r.store.update(id, func(m entities.AutonomyMandate) (entities.AutonomyMandate, error) {
		if m.Status != entities.MandateActive {
			return m, corerr.Concurrency("MANDATE_NOT_ACTIVE", "mandate is not active")
		}
		if m.MaxUses != nil && m.Uses >= *m.MaxUses {
			return m, corerr.Concurrency("MANDATE_EXHAUSTED_USES", "mandate use count already exhausted")
		}
		m.Uses++
		m.LastUsedAt = &at
		if m.MaxUses != nil && m.Uses >= *m.MaxUses {
			m.Status = entities.MandateExpired
			m.ExpiredAt = &at
			m.ExpireReason = entities.ExpireReasonUses
		}
		return m, nil
	})
}

// RecordSuspension suspends a mandate, attaching the observation that
// triggered it when applicable.
func (r *MandateRepository) RecordSuspension(id, reason, observationID string, at time.Time) (entities.AutonomyMandate, error) {
	return r.store.update(id, func(m entities.AutonomyMandate) (entities.AutonomyMandate, error) {
		if m.Status == entities.MandateRevoked || m.Status == entities.MandateExpired {
			return m, nil
		}
		m.Status = entities.MandateSuspended
		m.SuspendedAt = &at
		m.SuspendReason = reason
		m.TriggeredByObservationID = observationID
		return m, nil
	})
}

// RecordDegrade lowers a mandate's mode by one level (TEACHING is a fixed
// floor). Used only by the consequence policy's DEGRADE effect.
func (r *MandateRepository) RecordDegrade(id string) (entities.AutonomyMandate, error) {
	return r.store.update(id, func(m entities.AutonomyMandate) (entities.AutonomyMandate, error) {
		m.Mode = m.Mode.Degrade()
		return m, nil
	})
}

// MarkConsequenceApplied stamps observationID as applied so a later replay
// of the same observation against this mandate is a no-op. Called by the
// autonomy application service after running a consequence verdict's
// effect, including NO_ACTION and FLAG_HUMAN_REVIEW which mutate nothing
// else.
func (r *MandateRepository) MarkConsequenceApplied(id, observationID string) (entities.AutonomyMandate, error) {
	return r.store.update(id, func(m entities.AutonomyMandate) (entities.AutonomyMandate, error) {
		m.LastAppliedObservationID = observationID
		return m, nil
	})
}

// RecordResumption resumes a suspended mandate. Requires a non-system actor
// and, when a triggering observation was recorded, a non-empty reason.
// A no-op if the mandate is not currently suspended.
func (r *MandateRepository) RecordResumption(id, actor, reason string, at time.Time) (entities.AutonomyMandate, error) {
	return r.store.update(id, func(m entities.AutonomyMandate) (entities.AutonomyMandate, error) {
		if m.Status != entities.MandateSuspended {
			return m, nil
		}
		if actor == "" || actor == "system" {
			return m, corerr.Validation("RESUME_REQUIRES_HUMAN_ACTOR", "resumption requires a non-system actor")
		}
		if m.TriggeredByObservationID != "" && reason == "" {
			return m, corerr.Validation("RESUME_REASON_REQUIRED", "a reason is required to resume a mandate suspended by an observation")
		}
		m.Status = entities.MandateActive
		m.SuspendedAt = nil
		m.SuspendReason = ""
		m.TriggeredByObservationID = ""
		_ = at
		return m, nil
	})
}
