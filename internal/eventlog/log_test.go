package eventlog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ledger/internal/config"
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

func TestAppendAndVerifyChain(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir, testCfg(), nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := log.Append("tester", "SITUATION_CREATED", "Situation", "sit-1",
			map[string]any{"i": i})
		require.NoError(t, err)
	}

	result, err := log.VerifyChain(context.Background())
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, 10, result.TotalVerified)
}

func TestSegmentRotationAtSizePlusOne(t *testing.T) {
	dir := t.TempDir()
	cfg := testCfg()
	cfg.SegmentSize = 3
	log, err := Open(dir, cfg, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := log.Append("tester", "EVT", "Entity", "e", nil)
		require.NoError(t, err)
	}
	nums, err := listSegmentNumbers(dir)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, nums) // segment 0 full + rotated empty segment 1

	_, err = log.Append("tester", "EVT", "Entity", "e", nil)
	require.NoError(t, err)

	seg1, err := loadSegment(dir, 1)
	require.NoError(t, err)
	require.Len(t, seg1, 1, "4th append must land in segment 1, not segment 0")
}

func TestVerifyFromSnapshotAgreesWithFullVerify(t *testing.T) {
	dir := t.TempDir()
	cfg := testCfg()
	cfg.SnapshotEvery = 5
	log, err := Open(dir, cfg, nil)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := log.Append("tester", "EVT", "Entity", "e", map[string]any{"i": i})
		require.NoError(t, err)
	}

	full, err := log.VerifyChain(context.Background())
	require.NoError(t, err)
	fast, err := log.VerifyFromSnapshot(context.Background())
	require.NoError(t, err)

	require.Equal(t, full.Valid, fast.Valid)
	require.Equal(t, full.TotalVerified, fast.TotalVerified)
}

func TestCorruptionDetected(t *testing.T) {
	dir := t.TempDir()
	cfg := testCfg()
	cfg.SegmentSize = 5
	log, err := Open(dir, cfg, nil)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		_, err := log.Append("tester", "EVT", "Entity", "e", map[string]any{"i": i})
		require.NoError(t, err)
	}

	// Flip one byte in segment 0's first entry's current_hash.
	path := filepath.Join(dir, segmentFileName(0))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	flipped := "0"
	if entries[0].CurrentHash[0] == '0' {
		flipped = "1"
	}
	entries[0].CurrentHash = flipped + entries[0].CurrentHash[1:]
	corrupted, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, corrupted, 0o644))

	result, err := log.VerifyChain(context.Background())
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "hash mismatch", result.Reason)
}

func TestExportBounds(t *testing.T) {
	dir := t.TempDir()
	cfg := testCfg()
	cfg.MaxEventsExport = 5
	log, err := Open(dir, cfg, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := log.Append("tester", "EVT", "Entity", "e", nil)
		require.NoError(t, err)
	}
	_, manifest, err := log.ExportRange(context.Background(), ExportRangeInput{})
	require.NoError(t, err)
	require.Equal(t, 5, manifest.Count)
	require.True(t, manifest.ChainValidWithinExport)

	_, err = log.Append("tester", "EVT", "Entity", "e", nil)
	require.NoError(t, err)
	_, _, err = log.ExportRange(context.Background(), ExportRangeInput{})
	require.Error(t, err)
}

func TestReopenRecoversChainState(t *testing.T) {
	dir := t.TempDir()
	cfg := testCfg()
	log, err := Open(dir, cfg, nil)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := log.Append("tester", "EVT", "Entity", "e", nil)
		require.NoError(t, err)
	}
	stats := log.Stats()

	reopened, err := Open(dir, cfg, nil)
	require.NoError(t, err)
	reopenedStats := reopened.Stats()
	require.Equal(t, stats.LastHash, reopenedStats.LastHash)
	require.Equal(t, stats.TotalEntries, reopenedStats.TotalEntries)

	_, err = reopened.Append("tester", "EVT2", "Entity", "e", nil)
	require.NoError(t, err)

	result, err := reopened.VerifyChain(context.Background())
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, 5, result.TotalVerified)
}
