// Package eventlog implements the append-only, hash-chained, segmented
// event log: the system's source of truth for auditability (spec.md §4.2).
//
// It generalizes vantage's core/evidence Sign/Verify pattern — sha256 over a
// canonical byte encoding of a fixed set of fields — from a single signed
// artifact to a chain of linked entries, and takes its entry field naming
// (PrevHash/CurrentHash) from the audit-event pattern surveyed in
// other_examples' borisdali-helpdesk audit package.
package eventlog

import "time"

// GenesisHash is the distinguished previous_hash value for entry 0.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000000000000000"

// Entry is one hash-chained, append-only event log record.
type Entry struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Actor        string         `json:"actor"`
	EventType    string         `json:"event_type"`
	EntityType   string         `json:"entity_type"`
	EntityID     string         `json:"entity_id"`
	Payload      map[string]any `json:"payload"`
	PreviousHash string         `json:"previous_hash"`
	CurrentHash  string         `json:"current_hash"`
}

// signedView is the subset of fields hashed to produce CurrentHash. It
// deliberately excludes CurrentHash itself.
type signedView struct {
	ID           string         `json:"id"`
	Timestamp    string         `json:"timestamp"`
	Actor        string         `json:"actor"`
	EventType    string         `json:"event_type"`
	EntityType   string         `json:"entity_type"`
	EntityID     string         `json:"entity_id"`
	Payload      map[string]any `json:"payload"`
	PreviousHash string         `json:"previous_hash"`
}

func (e Entry) toSignedView() signedView {
	return signedView{
		ID:           e.ID,
		Timestamp:    e.Timestamp.UTC().Format(time.RFC3339Nano),
		Actor:        e.Actor,
		EventType:    e.EventType,
		EntityType:   e.EntityType,
		EntityID:     e.EntityID,
		Payload:      e.Payload,
		PreviousHash: e.PreviousHash,
	}
}
