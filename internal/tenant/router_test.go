package tenant

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"ledger/internal/config"
)

func TestResolvePrefersHeaderOverEverythingElse(t *testing.T) {
	router := NewRouter(nil)
	id, err := router.Resolve(RequestContext{
		Header: "acme-corp",
		Path:   "/t/globex-inc/situations",
		Host:   "other-corp.example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "acme-corp", id)
}

func TestResolveFallsBackToPathThenHostThenToken(t *testing.T) {
	router := NewRouter(nil)

	id, err := router.Resolve(RequestContext{Path: "/t/globex-inc/situations"})
	require.NoError(t, err)
	require.Equal(t, "globex-inc", id)

	id, err = router.Resolve(RequestContext{Host: "acme-corp.ledger.example.com"})
	require.NoError(t, err)
	require.Equal(t, "acme-corp", id)

	token := signUnverifiedTestToken(t, "tenant-from-token")
	id, err = router.Resolve(RequestContext{BearerToken: token})
	require.NoError(t, err)
	require.Equal(t, "tenant-from-token", id)
}

func TestResolveFailsWithNoCandidate(t *testing.T) {
	router := NewRouter(nil)
	_, err := router.Resolve(RequestContext{})
	require.Error(t, err)
}

func TestRouteReturnsTypedErrorForUnknownTenant(t *testing.T) {
	base := t.TempDir()
	reg, err := NewRegistry(base)
	require.NoError(t, err)
	rt := NewRuntime(base, testEventLogCfg(), reg, nil)
	router := NewRouter(rt)

	_, err = router.Route(RequestContext{Header: "never-registered"})
	require.Error(t, err)
}

func TestRouteResolvesToLiveCoreForRegisteredTenant(t *testing.T) {
	base := t.TempDir()
	reg, err := NewRegistry(base)
	require.NoError(t, err)
	_, err = reg.Register("acme-corp", "Acme Corp", config.Quotas{}, nil)
	require.NoError(t, err)
	rt := NewRuntime(base, testEventLogCfg(), reg, nil)
	router := NewRouter(rt)

	core, err := router.Route(RequestContext{Header: "acme-corp"})
	require.NoError(t, err)
	require.NotNil(t, core)
}

// signUnverifiedTestToken builds a JWT carrying a tenant_id claim, signed
// with an arbitrary HMAC key — the Router never checks the signature, only
// the claim, so any key works for this test.
func signUnverifiedTestToken(t *testing.T, tenantID string) string {
	t.Helper()
	claims := tenantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TenantID: tenantID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}
