package tenant

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"ledger/internal/config"
	"ledger/internal/corerr"
	"ledger/internal/orchestrator"
)

// Runtime owns the per-tenant map of live Core instances, built lazily on
// demand. Instances are independently initializable and verifiable; the
// crash or corruption of one never touches another, because nothing is
// shared across tenant instances beyond the Registry itself (spec.md §4.7).
type Runtime struct {
	mu       sync.Mutex
	base     string
	eventLog config.EventLogConfig
	logger   *zap.Logger
	registry *Registry

	instances map[string]*orchestrator.Core
}

// NewRuntime wires a Runtime rooted at base, sharing one Registry and one
// EventLogConfig across every tenant instance it lazily creates.
func NewRuntime(base string, eventLog config.EventLogConfig, registry *Registry, logger *zap.Logger) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runtime{
		base:      base,
		eventLog:  eventLog,
		logger:    logger,
		registry:  registry,
		instances: make(map[string]*orchestrator.Core),
	}
}

// Get returns tenantID's Core instance, constructing it on first access.
// Fails with TENANT_NOT_FOUND/TENANT_SUSPENDED/TENANT_DELETED before ever
// touching the filesystem if the registry doesn't carry an active record.
func (rt *Runtime) Get(tenantID string) (*orchestrator.Core, error) {
	normalized, err := NormalizeID(tenantID)
	if err != nil {
		return nil, err
	}

	cfg, err := rt.registry.Get(normalized)
	if err != nil {
		return nil, err
	}
	switch cfg.Status {
	case StatusSuspended:
		return nil, corerr.Tenant("TENANT_SUSPENDED", "tenant is suspended: "+normalized)
	case StatusDeleted:
		return nil, corerr.Tenant("TENANT_DELETED", "tenant is deleted: "+normalized)
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if core, ok := rt.instances[normalized]; ok {
		return core, nil
	}

	dir, err := resolveDataDir(rt.base, normalized)
	if err != nil {
		return nil, err
	}
	core, err := orchestrator.New(dir, rt.eventLog, cfg.Quotas, rt.logger.With(zap.String("tenant_id", normalized)))
	if err != nil {
		return nil, fmt.Errorf("tenant: construct core for %s: %w", normalized, err)
	}
	rt.instances[normalized] = core
	return core, nil
}

// Evict drops tenantID's live instance, if any, so the next Get rebuilds it
// from disk. Does not touch the registry or the tenant's data directory.
func (rt *Runtime) Evict(tenantID string) {
	normalized, err := NormalizeID(tenantID)
	if err != nil {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	delete(rt.instances, normalized)
}
