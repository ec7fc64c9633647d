package entities

import "time"

// Observed captures the factual side of a ConsequenceObservation: what
// objectively happened.
type Observed struct {
	Description      string
	Indicators        []string
	Attachments        []string
	LimitsRespected    bool
	ConditionsMet      bool
}

// Perceived captures the interpretive side of a ConsequenceObservation: how
// it was read by the registering party. This is explicitly opinion, kept
// separate from Observed's facts.
type Perceived struct {
	Description    string
	Signal         string
	PerceivedRisk  string
	Lessons        []string
	ExtraContext   string
}

// ConsequenceObservation is a post-hoc factual+perceptual record bound to a
// Contract. Append-only; every string in the bound Contract's
// MinimumRequiredObservations must appear in MinimumEvidences (the
// anti-fraud superset check).
type ConsequenceObservation struct {
	ID                string
	ContractID        string
	EpisodeID         string
	Observed          Observed
	Perceived         Perceived
	MinimumEvidences  []string
	RegisteredBy      string
	RegisteredAt      time.Time
	PriorObservationID string
	Notes             string

	// AutonomyTrigger, when non-nil, carries the fields the Consequence
	// policy needs: severity, category, and whether limits were violated or
	// a relevant loss occurred. It is optional input, not a stored fact
	// about the observation itself (spec.md §4.4).
	AutonomyTrigger *AutonomyTrigger
}

// TriggerSeverity is the severity scale the Consequence policy reasons
// over.
type TriggerSeverity int

const (
	SeverityLow TriggerSeverity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// TriggerCategory classifies the nature of a consequence for policy rule 4.
type TriggerCategory string

const (
	CategoryOther  TriggerCategory = "OTHER"
	CategoryLegal  TriggerCategory = "LEGAL"
	CategoryEthical TriggerCategory = "ETHICAL"
)

// AutonomyTrigger carries the consequence-policy inputs an external caller
// may attach to a ConsequenceObservation. Defaults (spec.md §4.4):
// Severity=LOW, Category=OTHER, ViolatedLimits=false, Reversible=true,
// RelevantLoss=false.
type AutonomyTrigger struct {
	AgentID        string
	Severity       TriggerSeverity
	Category       TriggerCategory
	ViolatedLimits bool
	Reversible     bool
	RelevantLoss   bool
}
