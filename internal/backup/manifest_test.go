package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ledger/internal/config"
	"ledger/internal/eventlog"
)

func testCfg() config.EventLogConfig {
	return config.EventLogConfig{
		SegmentSize:       1000,
		SnapshotEvery:     500,
		RetentionSegments: 30,
		MaxEventsExport:   10000,
		MaxEventsReplay:   50000,
	}
}

func seedLog(t *testing.T, dir string, n int) {
	t.Helper()
	log, err := eventlog.Open(dir, testCfg(), nil)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := log.Append("tester", "SITUATION_CREATED", "Situation", "sit-1", map[string]any{"i": i})
		require.NoError(t, err)
	}
}

func TestBuildManifestCoversEverySegmentFile(t *testing.T) {
	dir := t.TempDir()
	seedLog(t, dir, 5)

	manifest, err := BuildManifest(context.Background(), dir, testCfg())
	require.NoError(t, err)
	require.NotEmpty(t, manifest.Files)
	require.Equal(t, 5, manifest.EventLogSummary.TotalEvents)
	require.True(t, manifest.ChainValidAtBackup)
}

func TestVerifyRestoreAcceptsAnUnmodifiedCopy(t *testing.T) {
	source := t.TempDir()
	seedLog(t, source, 5)

	manifest, err := BuildManifest(context.Background(), source, testCfg())
	require.NoError(t, err)

	restored := t.TempDir()
	copyDir(t, source, restored)

	err = VerifyRestore(context.Background(), manifest, restored, testCfg())
	require.NoError(t, err)
}

func TestVerifyRestoreRejectsTamperedFile(t *testing.T) {
	source := t.TempDir()
	seedLog(t, source, 5)

	manifest, err := BuildManifest(context.Background(), source, testCfg())
	require.NoError(t, err)

	restored := t.TempDir()
	copyDir(t, source, restored)

	tampered := filepath.Join(restored, manifest.Files[0].Path)
	require.NoError(t, os.WriteFile(tampered, []byte("[]"), 0o644))

	err = VerifyRestore(context.Background(), manifest, restored, testCfg())
	require.Error(t, err)
}

func copyDir(t *testing.T, src, dst string) {
	t.Helper()
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, e.Name()), data, 0o644))
	}
}
