package autonomy

import "ledger/internal/entities"

// ConsequenceAction names the effect the policy prescribes. The
// application service translates this into mandate-repository mutators and
// event emission.
type ConsequenceAction string

const (
	ActionNone             ConsequenceAction = "NO_ACTION"
	ActionRevoke           ConsequenceAction = "REVOKE"
	ActionSuspend          ConsequenceAction = "SUSPEND"
	ActionDegrade          ConsequenceAction = "DEGRADE"
	ActionFlagHumanReview  ConsequenceAction = "FLAG_HUMAN_REVIEW"
)

// ConsequenceVerdict is the policy's outcome for one trigger.
type ConsequenceVerdict struct {
	Action            ConsequenceAction
	RequireHumanReview bool
	Reason            string
}

// EvaluateConsequence runs the five consequence-policy rules in priority
// order and returns the first match. A nil trigger is treated as the
// documented defaults: severity=LOW, category=OTHER, violated_limits=false,
// reversible=true, relevant_loss=false — which always yields NO_ACTION.
func EvaluateConsequence(t *entities.AutonomyTrigger) ConsequenceVerdict {
	severity := entities.SeverityLow
	category := entities.CategoryOther
	violatedLimits := false
	relevantLoss := false
	if t != nil {
		severity = t.Severity
		category = t.Category
		violatedLimits = t.ViolatedLimits
		relevantLoss = t.RelevantLoss
	}

	// 1. Critical severity revokes outright.
	if severity == entities.SeverityCritical {
		return ConsequenceVerdict{
			Action:             ActionRevoke,
			RequireHumanReview: true,
			Reason:             "critical severity consequence",
		}
	}

	// 2. Violated limits suspend pending review.
	if violatedLimits {
		return ConsequenceVerdict{
			Action:             ActionSuspend,
			RequireHumanReview: true,
			Reason:             "mandate limits were violated",
		}
	}

	// 3. Relevant loss at high/critical severity degrades one mode.
	if relevantLoss && (severity == entities.SeverityHigh || severity == entities.SeverityCritical) {
		return ConsequenceVerdict{
			Action: ActionDegrade,
			Reason: "relevant loss observed at elevated severity",
		}
	}

	// 4. Legal/ethical category at high/critical severity flags review
	// without changing mandate state.
	if (category == entities.CategoryLegal || category == entities.CategoryEthical) &&
		(severity == entities.SeverityHigh || severity == entities.SeverityCritical) {
		return ConsequenceVerdict{
			Action:             ActionFlagHumanReview,
			RequireHumanReview: true,
			Reason:             "legal or ethical category at elevated severity",
		}
	}

	// 5. No trigger.
	return ConsequenceVerdict{Action: ActionNone}
}
