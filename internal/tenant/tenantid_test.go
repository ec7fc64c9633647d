package tenant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeIDLowercasesValidID(t *testing.T) {
	id, err := NormalizeID("Acme-Corp")
	require.NoError(t, err)
	require.Equal(t, "acme-corp", id)
}

func TestNormalizeIDRejectsReservedWords(t *testing.T) {
	for _, reserved := range []string{"admin", "system", "config", "backup", "logs", "tenants"} {
		_, err := NormalizeID(reserved)
		require.Error(t, err)
	}
}

func TestNormalizeIDRejectsTraversal(t *testing.T) {
	for _, bad := range []string{"../etc/passwd", "a/b", "~root", "a..b/"} {
		_, err := NormalizeID(bad)
		require.Error(t, err, bad)
	}
}

func TestNormalizeIDLengthBounds(t *testing.T) {
	_, err := NormalizeID(strings.Repeat("a", 2))
	require.Error(t, err)

	_, err = NormalizeID(strings.Repeat("a", 51))
	require.Error(t, err)

	_, err = NormalizeID(strings.Repeat("a", 3))
	require.NoError(t, err)

	_, err = NormalizeID(strings.Repeat("a", 50))
	require.NoError(t, err)
}

func TestResolveDataDirStaysUnderTenantsRoot(t *testing.T) {
	base := t.TempDir()
	dir, err := resolveDataDir(base, "acme-corp")
	require.NoError(t, err)
	require.Contains(t, dir, "tenants")
	require.Contains(t, dir, "acme-corp")
}

func TestResolveDataDirRejectsInvalidID(t *testing.T) {
	base := t.TempDir()
	_, err := resolveDataDir(base, "../etc/passwd")
	require.Error(t, err)
}
