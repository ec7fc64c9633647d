package tenant

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ledger/internal/config"
	"ledger/internal/corerr"
	"ledger/internal/idgen"
)

// Status is a TenantConfig's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

// Config is the registry's persisted record for one tenant.
type Config struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    Status         `json:"status"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Quotas    config.Quotas  `json:"quotas"`
	Features  []string       `json:"features"`
}

// Registry is the persistent {tenant_id -> Config} map backed by
// config/tenants.json under the base directory. All mutating operations
// hold mu for the duration of their read-modify-write, mirroring
// the repository package's write-temp-then-rename discipline.
type Registry struct {
	mu   sync.Mutex
	path string
}

// NewRegistry opens (or initializes) the registry file at base/config/tenants.json.
func NewRegistry(base string) (*Registry, error) {
	dir := filepath.Join(base, "config")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tenant: create config dir: %w", err)
	}
	path := filepath.Join(dir, "tenants.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeTenantsFile(path, map[string]Config{}); err != nil {
			return nil, err
		}
	}
	return &Registry{path: path}, nil
}

func readTenantsFile(path string) (map[string]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tenant: read registry: %w", err)
	}
	all := map[string]Config{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &all); err != nil {
			return nil, fmt.Errorf("tenant: parse registry: %w", err)
		}
	}
	return all, nil
}

func writeTenantsFile(path string, all map[string]Config) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("tenant: marshal registry: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("tenant: write registry temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("tenant: rename registry temp file: %w", err)
	}
	return nil
}

// Register creates a new tenant record, active by default. Fails if id is
// invalid/reserved or already registered.
func (r *Registry) Register(id, name string, quotas config.Quotas, features []string) (Config, error) {
	normalized, err := NormalizeID(id)
	if err != nil {
		return Config{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := readTenantsFile(r.path)
	if err != nil {
		return Config{}, err
	}
	if _, exists := all[normalized]; exists {
		return Config{}, corerr.Tenant("TENANT_ALREADY_REGISTERED", "tenant already registered: "+normalized)
	}

	now := idgen.Now().UTC().Format(timeLayout)
	cfg := Config{
		ID:        normalized,
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
		Quotas:    quotas,
		Features:  features,
	}
	all[normalized] = cfg
	if err := writeTenantsFile(r.path, all); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Get returns the registry record for id.
func (r *Registry) Get(id string) (Config, error) {
	normalized, err := NormalizeID(id)
	if err != nil {
		return Config{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := readTenantsFile(r.path)
	if err != nil {
		return Config{}, err
	}
	cfg, ok := all[normalized]
	if !ok {
		return Config{}, corerr.Tenant("TENANT_NOT_FOUND", "tenant not found: "+normalized)
	}
	return cfg, nil
}

// List returns every registered tenant, regardless of status.
func (r *Registry) List() ([]Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := readTenantsFile(r.path)
	if err != nil {
		return nil, err
	}
	out := make([]Config, 0, len(all))
	for _, cfg := range all {
		out = append(out, cfg)
	}
	return out, nil
}

// ListActive returns only tenants whose status is active.
func (r *Registry) ListActive() ([]Config, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	out := make([]Config, 0, len(all))
	for _, cfg := range all {
		if cfg.Status == StatusActive {
			out = append(out, cfg)
		}
	}
	return out, nil
}

// Update overwrites name/quotas/features for an existing, non-deleted tenant.
func (r *Registry) Update(id string, name string, quotas config.Quotas, features []string) (Config, error) {
	return r.mutate(id, func(cfg *Config) error {
		if cfg.Status == StatusDeleted {
			return corerr.Tenant("TENANT_DELETED", "cannot update a deleted tenant")
		}
		cfg.Name = name
		cfg.Quotas = quotas
		cfg.Features = features
		return nil
	})
}

// Suspend marks a tenant suspended. An already-suspended tenant stays
// suspended; a deleted tenant is refused with TENANT_DELETED.
func (r *Registry) Suspend(id string) (Config, error) {
	return r.mutate(id, func(cfg *Config) error {
		if cfg.Status == StatusDeleted {
			return corerr.Tenant("TENANT_DELETED", "cannot suspend a deleted tenant")
		}
		cfg.Status = StatusSuspended
		return nil
	})
}

// Resume reactivates a suspended tenant. Fails if the tenant is deleted; an
// already-active tenant stays active.
func (r *Registry) Resume(id string) (Config, error) {
	return r.mutate(id, func(cfg *Config) error {
		if cfg.Status == StatusDeleted {
			return corerr.Tenant("TENANT_DELETED", "cannot resume a deleted tenant")
		}
		cfg.Status = StatusActive
		return nil
	})
}

// Remove soft-deletes a tenant: the registry record is kept (audit trail)
// but its status moves to deleted and the router refuses to route to it.
// The tenant's data directory is left untouched — removal is a registry
// operation, not a file-deletion one.
func (r *Registry) Remove(id string) (Config, error) {
	return r.mutate(id, func(cfg *Config) error {
		cfg.Status = StatusDeleted
		return nil
	})
}

func (r *Registry) mutate(id string, fn func(cfg *Config) error) (Config, error) {
	normalized, err := NormalizeID(id)
	if err != nil {
		return Config{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := readTenantsFile(r.path)
	if err != nil {
		return Config{}, err
	}
	cfg, ok := all[normalized]
	if !ok {
		return Config{}, corerr.Tenant("TENANT_NOT_FOUND", "tenant not found: "+normalized)
	}
	if err := fn(&cfg); err != nil {
		return Config{}, err
	}
	cfg.UpdatedAt = idgen.Now().UTC().Format(timeLayout)
	all[normalized] = cfg
	if err := writeTenantsFile(r.path, all); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

const timeLayout = "2006-01-02T15:04:05.000000000Z"
