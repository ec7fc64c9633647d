package autonomy

import (
	"time"

	"ledger/internal/entities"
	"ledger/internal/eventlog"
)

// MandateMutator is the subset of the mandate repository's narrow mutators
// the application service needs. Defined here, not imported, so this
// package has no dependency on the repository package's concrete types.
type MandateMutator interface {
	RecordRevocation(id, by, reason string, at time.Time) (entities.AutonomyMandate, error)
	RecordSuspension(id, reason, observationID string, at time.Time) (entities.AutonomyMandate, error)
	RecordDegrade(id string) (entities.AutonomyMandate, error)
	MarkConsequenceApplied(id, observationID string) (entities.AutonomyMandate, error)
}

// EventEmitter is the minimal event log surface the application service
// needs to mirror its effects into the audit trail.
type EventEmitter interface {
	Append(actor, eventType, entityType, entityID string, payload map[string]any) (eventlog.Entry, error)
}

// ApplyResult reports what the application service actually did.
type ApplyResult struct {
	Mandate   entities.AutonomyMandate
	Verdict   ConsequenceVerdict
	Applied   bool
	EventType string
}

// Apply runs the consequence policy's verdict against mandate, mutating it
// through the narrow repository methods and emitting the matching event.
// Idempotent: if observationID was already applied to this mandate, Apply
// returns the mandate unchanged with Applied=false.
func Apply(mutator MandateMutator, log EventEmitter, mandate entities.AutonomyMandate, verdict ConsequenceVerdict, observationID string, now time.Time) (ApplyResult, error) {
	if mandate.LastAppliedObservationID == observationID && observationID != "" {
		return ApplyResult{Mandate: mandate, Verdict: verdict, Applied: false}, nil
	}

	var (
		updated  = mandate
		err      error
		eventType string
	)

	switch verdict.Action {
	case ActionRevoke:
		updated, err = mutator.RecordRevocation(mandate.ID, "system", verdict.Reason, now)
		eventType = "AUTONOMY_REVOKED_BY_CONSEQUENCE"
	case ActionSuspend:
		updated, err = mutator.RecordSuspension(mandate.ID, verdict.Reason, observationID, now)
		eventType = "AUTONOMY_SUSPENDED"
	case ActionDegrade:
		updated, err = mutator.RecordDegrade(mandate.ID)
		eventType = "AUTONOMY_DEGRADED"
	case ActionFlagHumanReview:
		eventType = "AUTONOMY_HUMAN_REVIEW_FLAGGED"
	default:
		eventType = ""
	}
	if err != nil {
		return ApplyResult{}, err
	}

	if observationID != "" {
		updated, err = mutator.MarkConsequenceApplied(mandate.ID, observationID)
		if err != nil {
			return ApplyResult{}, err
		}
	}

	if eventType != "" && log != nil {
		payload := map[string]any{
			"mandate_id":     mandate.ID,
			"agent_id":       mandate.AgentID,
			"observation_id": observationID,
			"reason":         verdict.Reason,
		}
		if verdict.Action == ActionSuspend {
			payload["suspended_at"] = now
		}
		// Event log failures are degraded-status material, not business
		// errors — the caller's degraded ring buffer records them, not this
		// function. An emit failure here is surfaced to the caller so the
		// orchestrator can route it there.
		if _, err := log.Append("system", eventType, "AutonomyMandate", mandate.ID, payload); err != nil {
			return ApplyResult{Mandate: updated, Verdict: verdict, Applied: true, EventType: eventType}, err
		}
	}

	return ApplyResult{Mandate: updated, Verdict: verdict, Applied: true, EventType: eventType}, nil
}
