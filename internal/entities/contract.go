package entities

import "time"

// Contract is the sole outbound artifact. No repository object, event log
// entry, or internal identifier beyond these fields may appear in a
// response crossing the system boundary.
type Contract struct {
	ID                        string
	EpisodeID                 string
	DecisionID                string
	AuthorizedAlternative     string
	ExecutionLimits           []Limit
	MandatoryConditions       []string
	MinimumRequiredObservations []string
	IssuedAt                  time.Time

	// IssuedTo is an opaque caller-supplied identifier. The core accepts it
	// as-is and performs no validation beyond non-emptiness; who is
	// authorized to set it is an external-interface policy (spec.md §9).
	IssuedTo string
}
