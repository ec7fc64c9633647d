package entities

import "time"

// Decision is the institutional record of which alternative was chosen. It
// requires a VALIDATED Protocol for the same Episode and must agree with it
// on chosen alternative and risk profile. Immutable after creation.
type Decision struct {
	ID                string
	EpisodeID         string
	ChosenAlternative string
	Criteria          []string
	Limits            []Limit
	Conditions        []string
	RiskProfile       RiskProfile
	DecidedAt         time.Time
}
