// Package orchestrator is the single entry point driving a Situation
// through Episode, Protocol, Decision, and Contract, composing the Closed
// Layer, the Autonomy subsystem, the multi-agent runner, the repositories,
// and the event log.
//
// Grounded on core/executor/engine.go's doctrine: this is the ONLY
// legitimate path a Situation moves through. If a state transition did not
// pass through a Core method, it is not a valid transition.
package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ledger/internal/config"
	"ledger/internal/corerr"
	"ledger/internal/eventlog"
	"ledger/internal/idgen"
	"ledger/internal/repository"
)

// Core binds one tenant's full stack: repositories, event log, and the
// degraded-status tracker. Once constructed, its dependency wiring never
// changes; only the data behind it does.
type Core struct {
	logger *zap.Logger

	situations   *repository.SituationRepository
	episodes     *repository.EpisodeRepository
	protocols    *repository.ProtocolRepository
	decisions    *repository.DecisionRepository
	contracts    *repository.ContractRepository
	observations *repository.ObservationRepository
	mandates     *repository.MandateRepository

	log *eventlog.Log

	quotas config.Quotas

	failures *corerr.RingBuffer
	degraded bool
}

// New opens (or initializes) every repository and the event log rooted at
// dir, and runs a boot-time snapshot-assisted verification. A failed
// verification marks the instance degraded but does not refuse traffic
// (spec.md §7, §8 Scenario S5). quotas is this tenant's allotment; a zero
// Quotas value means unlimited.
func New(dir string, cfg config.EventLogConfig, quotas config.Quotas, logger *zap.Logger) (*Core, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	situations, err := repository.NewSituationRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open situations: %w", err)
	}
	episodes, err := repository.NewEpisodeRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open episodes: %w", err)
	}
	protocols, err := repository.NewProtocolRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open protocols: %w", err)
	}
	decisions, err := repository.NewDecisionRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open decisions: %w", err)
	}
	contracts, err := repository.NewContractRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open contracts: %w", err)
	}
	observations, err := repository.NewObservationRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open observations: %w", err)
	}
	mandates, err := repository.NewMandateRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open mandates: %w", err)
	}

	log, err := eventlog.Open(dir, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open event log: %w", err)
	}

	c := &Core{
		logger:       logger,
		situations:   situations,
		episodes:     episodes,
		protocols:    protocols,
		decisions:    decisions,
		contracts:    contracts,
		observations: observations,
		mandates:     mandates,
		log:          log,
		quotas:       quotas,
		failures:     corerr.NewRingBuffer(),
	}

	res, err := log.VerifyFromSnapshot(context.Background())
	if err != nil || !res.Valid {
		c.degraded = true
		reason := res.Reason
		if err != nil {
			reason = err.Error()
		}
		c.logger.Warn("event log failed boot verification; instance is degraded",
			zap.String("reason", reason))
	}

	return c, nil
}

// emit appends an event, recording any failure into the degraded-status
// ring buffer instead of aborting the caller's business operation
// (spec.md §4.2 Failure semantics, §7 Propagation policy).
func (c *Core) emit(actor, eventType, entityType, entityID string, payload map[string]any) {
	if _, err := c.log.Append(actor, eventType, entityType, entityID, payload); err != nil {
		c.degraded = true
		c.failures.Record(eventType, err.Error(), idgen.Now())
		c.logger.Error("event log append failed; operation proceeded, instance is degraded",
			zap.String("event_type", eventType), zap.Error(err))
	}
}

// checkEventQuota returns a Capacity error once this tenant's max_events
// allotment is reached. A zero MaxEvents means unlimited. Checked only at
// the entry points that introduce new top-level work (spec.md §4.7 quotas,
// §7 Capacity errors); mid-pipeline operations on already-admitted work are
// never blocked by it.
func (c *Core) checkEventQuota() error {
	if c.quotas.MaxEvents <= 0 {
		return nil
	}
	if c.log.Stats().TotalEntries >= c.quotas.MaxEvents {
		return corerr.Capacity("TENANT_EVENT_QUOTA_EXCEEDED", "tenant has reached its max_events quota")
	}
	return nil
}

// Status reports the instance's health as seen by external status queries.
type Status struct {
	Degraded       bool
	FailureCount   uint64
	RecentFailures []corerr.FailureEntry
	EventLogStats  eventlog.Stats
}

// GetEventLogStatus returns the instance's current health snapshot.
func (c *Core) GetEventLogStatus() Status {
	entries, total := c.failures.Snapshot()
	return Status{
		Degraded:       c.degraded,
		FailureCount:   total,
		RecentFailures: entries,
		EventLogStats:  c.log.Stats(),
	}
}
