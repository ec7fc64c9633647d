package orchestrator

import (
	"context"

	"ledger/internal/eventlog"
)

// ExportEventLogForAudit returns a contiguous slice of the event log plus
// its manifest. Bounded by MAX_EVENTS_EXPORT; callers must paginate by
// timestamp for larger ranges.
func (c *Core) ExportEventLogForAudit(ctx context.Context, in eventlog.ExportRangeInput) ([]eventlog.Entry, eventlog.ExportManifest, error) {
	return c.log.ExportRange(ctx, in)
}

// ReplayEventLog aggregates the event log's history by event_type,
// entity_type, and actor, bounded by MAX_EVENTS_REPLAY.
func (c *Core) ReplayEventLog(ctx context.Context) (eventlog.ReplaySummary, error) {
	return c.log.Replay(ctx)
}

// VerifyEventLogNow runs a full chain verification, not the snapshot-assisted
// fast path boot uses. Intended for operator-triggered audits.
func (c *Core) VerifyEventLogNow(ctx context.Context) (eventlog.VerifyResult, error) {
	res, err := c.log.VerifyChain(ctx)
	if err != nil || !res.Valid {
		c.degraded = true
	}
	return res, err
}
