package tenant

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ledger/internal/config"
)

func TestRegisterGetListActive(t *testing.T) {
	reg, err := NewRegistry(t.TempDir())
	require.NoError(t, err)

	_, err = reg.Register("acme-corp", "Acme Corp", config.Quotas{MaxEvents: 100}, []string{"multiagent"})
	require.NoError(t, err)
	_, err = reg.Register("globex-inc", "Globex Inc", config.Quotas{}, nil)
	require.NoError(t, err)

	cfg, err := reg.Get("acme-corp")
	require.NoError(t, err)
	require.Equal(t, StatusActive, cfg.Status)
	require.Equal(t, 100, cfg.Quotas.MaxEvents)

	all, err := reg.List()
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = reg.Suspend("acme-corp")
	require.NoError(t, err)
	active, err := reg.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	reg, err := NewRegistry(t.TempDir())
	require.NoError(t, err)

	_, err = reg.Register("acme-corp", "Acme Corp", config.Quotas{}, nil)
	require.NoError(t, err)

	_, err = reg.Register("acme-corp", "Acme Corp Again", config.Quotas{}, nil)
	require.Error(t, err)
}

func TestRegisterRejectsInvalidID(t *testing.T) {
	reg, err := NewRegistry(t.TempDir())
	require.NoError(t, err)

	_, err = reg.Register("../etc/passwd", "evil", config.Quotas{}, nil)
	require.Error(t, err)

	all, err := reg.List()
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestSuspendResumeRemoveLifecycle(t *testing.T) {
	reg, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	_, err = reg.Register("acme-corp", "Acme Corp", config.Quotas{}, nil)
	require.NoError(t, err)

	cfg, err := reg.Suspend("acme-corp")
	require.NoError(t, err)
	require.Equal(t, StatusSuspended, cfg.Status)

	cfg, err = reg.Resume("acme-corp")
	require.NoError(t, err)
	require.Equal(t, StatusActive, cfg.Status)

	cfg, err = reg.Remove("acme-corp")
	require.NoError(t, err)
	require.Equal(t, StatusDeleted, cfg.Status)

	_, err = reg.Resume("acme-corp")
	require.Error(t, err)
}
