package eventlog

import (
	"context"
	"time"
)

// ReplaySummary aggregates the whole log by event_type, entity_type, and
// actor, plus any inconsistencies found along the way.
type ReplaySummary struct {
	TotalEvents     int
	ByEventType     map[string]int
	ByEntityType    map[string]int
	ByActor         map[string]int
	FirstTimestamp  time.Time
	LastTimestamp   time.Time
	Inconsistencies []string
	Truncated       bool
}

// Replay aggregates counts across the whole chain. If the total exceeds
// MAX_EVENTS_REPLAY, returns a truncated summary rather than scanning
// unboundedly (spec.md §4.2/§8).
func (l *Log) Replay(ctx context.Context) (ReplaySummary, error) {
	nums, err := listSegmentNumbers(l.dir)
	if err != nil {
		return ReplaySummary{}, err
	}

	summary := ReplaySummary{
		ByEventType:  make(map[string]int),
		ByEntityType: make(map[string]int),
		ByActor:      make(map[string]int),
	}

	prevHash := GenesisHash
	first := true

	for _, n := range nums {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		entries, err := loadSegment(l.dir, n)
		if err != nil {
			return ReplaySummary{}, err
		}

		for _, e := range entries {
			if summary.TotalEvents >= l.cfg.MaxEventsReplay {
				summary.Truncated = true
				return summary, nil
			}

			if e.PreviousHash != prevHash {
				summary.Inconsistencies = append(summary.Inconsistencies,
					"linkage gap at entry "+e.ID)
			}
			if recomputed, err := computeHash(e); err != nil || recomputed != e.CurrentHash {
				summary.Inconsistencies = append(summary.Inconsistencies,
					"hash mismatch at entry "+e.ID)
			}
			prevHash = e.CurrentHash

			summary.TotalEvents++
			summary.ByEventType[e.EventType]++
			summary.ByEntityType[e.EntityType]++
			summary.ByActor[e.Actor]++

			if first {
				summary.FirstTimestamp = e.Timestamp
				first = false
			}
			summary.LastTimestamp = e.Timestamp
		}
	}

	return summary, nil
}
