// Package tenant implements per-tenant isolation: id validation, safe data
// directory resolution, a persistent registry, a lazy per-tenant Core
// runtime, and a router that resolves an inbound request to a tenant.
//
// No repository, event log, or Orchestrator operation in this module ever
// takes a tenant id as a free-form string — every path into a tenant's data
// directory is built by resolveDataDir, which fails closed.
package tenant

import (
	"path/filepath"
	"regexp"
	"strings"

	"ledger/internal/corerr"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,48}[a-z0-9]$`)

var reservedIDs = map[string]struct{}{
	"admin":   {},
	"system":  {},
	"config":  {},
	"backup":  {},
	"logs":    {},
	"tenants": {},
}

// NormalizeID lowercases id and validates it against the tenant id grammar:
// ^[a-z0-9][a-z0-9-]{1,48}[a-z0-9]$, not a reserved word. Any violation,
// including a reserved id or disallowed characters (path separators, "..",
// "~"), is rejected at this layer — callers never see an invalid id reach
// path resolution.
func NormalizeID(id string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(id))

	if !idPattern.MatchString(normalized) {
		return "", corerr.Tenant("TENANT_ID_INVALID", "tenant id must match ^[a-z0-9][a-z0-9-]{1,48}[a-z0-9]$")
	}
	if _, reserved := reservedIDs[normalized]; reserved {
		return "", corerr.Tenant("TENANT_ID_RESERVED", "tenant id is reserved: "+normalized)
	}

	return normalized, nil
}

// resolveDataDir returns the canonical data directory for a validated
// tenant id rooted at base: canonicalize(base/tenants/tenant_id). The
// result is rejected unless it falls strictly inside
// canonicalize(base/tenants)/, closing off any residual traversal the id
// grammar itself didn't already block (spec.md §4.7).
func resolveDataDir(base, id string) (string, error) {
	normalized, err := NormalizeID(id)
	if err != nil {
		return "", err
	}

	tenantsRoot, err := filepath.Abs(filepath.Join(base, "tenants"))
	if err != nil {
		return "", corerr.Tenant("TENANT_PATH_INVALID", "could not resolve tenants root")
	}
	dir, err := filepath.Abs(filepath.Join(tenantsRoot, normalized))
	if err != nil {
		return "", corerr.Tenant("TENANT_PATH_INVALID", "could not resolve tenant data dir")
	}

	if dir != filepath.Clean(dir) {
		return "", corerr.Tenant("TENANT_PATH_ESCAPE", "resolved tenant path is not canonical")
	}
	prefix := tenantsRoot + string(filepath.Separator)
	if !strings.HasPrefix(dir, prefix) {
		return "", corerr.Tenant("TENANT_PATH_ESCAPE", "resolved tenant path escapes the tenants root")
	}

	return dir, nil
}
