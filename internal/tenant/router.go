package tenant

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"ledger/internal/corerr"
	"ledger/internal/orchestrator"
)

// RequestContext is the subset of an inbound request the Router needs to
// resolve a tenant. Populated by whatever external transport sits in front
// of this module (HTTP gateway, gRPC interceptor, CLI flag) — the Router
// itself performs no transport-level parsing.
type RequestContext struct {
	// Header is the explicit tenant id header value, if the caller set one.
	Header string
	// Path is the request path; a leading "/t/<tenant_id>/..." prefix is
	// recognized.
	Path string
	// Host is the request's Host header; a "<tenant_id>.<rest>" subdomain
	// is recognized.
	Host string
	// BearerToken is an already-authenticated JWT whose claims may carry a
	// tenant id. The Router only reads the claim; it performs no signature
	// verification and mints nothing (spec.md §9 — authentication is an
	// external concern).
	BearerToken string
}

// tenantClaims is the minimal claim shape the Router reads out of an
// already-authenticated bearer token.
type tenantClaims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id,omitempty"`
}

// Router resolves an inbound request to a live Core instance via, in order:
// explicit header, path prefix, subdomain, auth-token claim.
type Router struct {
	runtime *Runtime
}

// NewRouter binds a Router to runtime.
func NewRouter(runtime *Runtime) *Router {
	return &Router{runtime: runtime}
}

// Resolve returns the tenant id req resolves to, using the first strategy
// that yields a non-empty candidate. It does not itself validate the id —
// Runtime.Get performs that, along with the active/suspended/deleted check.
func (router *Router) Resolve(req RequestContext) (string, error) {
	if id := strings.TrimSpace(req.Header); id != "" {
		return id, nil
	}
	if id := tenantFromPath(req.Path); id != "" {
		return id, nil
	}
	if id := tenantFromHost(req.Host); id != "" {
		return id, nil
	}
	if id := tenantFromToken(req.BearerToken); id != "" {
		return id, nil
	}
	return "", corerr.Tenant("TENANT_NOT_FOUND", "request carries no tenant identifier")
}

// Route resolves req to a tenant id and returns its live Core instance.
func (router *Router) Route(req RequestContext) (*orchestrator.Core, error) {
	id, err := router.Resolve(req)
	if err != nil {
		return nil, err
	}
	return router.runtime.Get(id)
}

// tenantFromPath recognizes a "/t/<tenant_id>/..." prefix.
func tenantFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) < 2 || parts[0] != "t" {
		return ""
	}
	return parts[1]
}

// tenantFromHost recognizes a "<tenant_id>.<rest>" subdomain. A bare host
// with no dot yields no candidate.
func tenantFromHost(host string) string {
	host = strings.SplitN(host, ":", 2)[0] // strip a port if present
	idx := strings.Index(host, ".")
	if idx <= 0 {
		return ""
	}
	return host[:idx]
}

// tenantFromToken reads the tenant_id claim out of an unverified JWT. No
// signature check is performed: by the time a bearer token reaches this
// module, an upstream authenticator has already verified it.
func tenantFromToken(token string) string {
	if token == "" {
		return ""
	}
	claims := &tenantClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	return claims.TenantID
}
