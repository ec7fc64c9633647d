package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ledger/internal/fsutil"
)

const snapshotFileName = "event-log-snapshot.json"

const snapshotSchemaVersion = 1

// Snapshot captures the rolling verification state every snapshot_every
// appends: how many entries are verified, the hash at that point, and
// which segment/entry that corresponds to. verify_from_snapshot uses this
// to skip straight to the unverified tail.
type Snapshot struct {
	SchemaVersion        int       `json:"schema_version"`
	VerifiedCount        int       `json:"verified_count"`
	LastVerifiedID       string    `json:"last_verified_id"`
	LastVerifiedTS       time.Time `json:"last_verified_ts"`
	CurrentHash          string    `json:"current_hash"`
	CurrentSegmentNumber int       `json:"current_segment_number"`
}

func snapshotPath(dir string) string {
	return filepath.Join(dir, snapshotFileName)
}

// loadSnapshot returns (nil, nil) if no snapshot file exists. A snapshot
// that exists but fails to parse is reported distinctly so callers can fall
// back to a full verify rather than silently ignoring corruption.
func loadSnapshot(dir string) (*Snapshot, error) {
	data, err := os.ReadFile(snapshotPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("eventlog: read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("eventlog: corrupt snapshot: %w", err)
	}
	return &snap, nil
}

func saveSnapshot(dir string, snap Snapshot) error {
	snap.SchemaVersion = snapshotSchemaVersion
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("eventlog: encode snapshot: %w", err)
	}
	if err := fsutil.WriteFileAtomic(snapshotPath(dir), data, 0o644); err != nil {
		return fmt.Errorf("eventlog: write snapshot: %w", err)
	}
	return nil
}
