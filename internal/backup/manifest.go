// Package backup builds and verifies the manifest spec.md §6 defines for
// archiving an event log directory. It performs no archiving itself: no
// tar/gzip, no scheduling, no storage target — "backup archiving" is an
// external collaborator (spec.md §1 Non-goals). This package only gives
// that collaborator two pure functions: build a manifest over a directory,
// and verify a restored directory against one.
package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ledger/internal/config"
	"ledger/internal/corerr"
	"ledger/internal/eventlog"
)

// FileEntry records one archived file's path (relative to the source
// directory) and its size and content hash.
type FileEntry struct {
	Path      string
	SizeBytes int64
	SHA256    string
}

// EventLogSummary snapshots the event log's shape at backup time.
type EventLogSummary struct {
	TotalEvents     int
	TotalSegments   int
	FirstEventID    string
	LastEventID     string
	LastCurrentHash string
	SnapshotExists  bool
}

// Manifest is the full backup descriptor spec.md §6 names.
type Manifest struct {
	Version         int
	CreatedAt       time.Time
	SourceDir       string
	Files           []FileEntry
	EventLogSummary EventLogSummary
	ChainValidAtBackup bool
}

const manifestVersion = 1

// BuildManifest opens the event log rooted at dir (read-only in effect: it
// appends nothing) and produces a Manifest covering every segment file and
// the snapshot, if one exists. The archiver is responsible for actually
// copying those files into its tar-gzip; this function only describes them.
func BuildManifest(ctx context.Context, dir string, cfg config.EventLogConfig) (Manifest, error) {
	files, err := eventlog.ListFiles(dir)
	if err != nil {
		return Manifest{}, fmt.Errorf("backup: list event log files: %w", err)
	}

	entries := make([]FileEntry, 0, len(files))
	for _, name := range files {
		entry, err := hashFile(dir, name)
		if err != nil {
			return Manifest{}, err
		}
		entries = append(entries, entry)
	}

	log, err := eventlog.Open(dir, cfg, nil)
	if err != nil {
		return Manifest{}, fmt.Errorf("backup: open event log: %w", err)
	}
	stats := log.Stats()

	verify, err := log.VerifyChain(ctx)
	if err != nil {
		return Manifest{}, fmt.Errorf("backup: verify chain before backup: %w", err)
	}

	var firstID string
	if _, manifest, err := log.ExportRange(ctx, eventlog.ExportRangeInput{}); err == nil && manifest.Count > 0 {
		firstID = manifest.FirstID
	}

	snapshotExists := false
	for _, name := range files {
		if name == "event-log-snapshot.json" {
			snapshotExists = true
		}
	}

	return Manifest{
		Version:   manifestVersion,
		CreatedAt: time.Now().UTC(),
		SourceDir: dir,
		Files:     entries,
		EventLogSummary: EventLogSummary{
			TotalEvents:     stats.TotalEntries,
			TotalSegments:   stats.CurrentSegment + 1,
			FirstEventID:    firstID,
			LastEventID:     stats.LastID,
			LastCurrentHash: stats.LastHash,
			SnapshotExists:  snapshotExists,
		},
		ChainValidAtBackup: verify.Valid,
	}, nil
}

// VerifyRestore checks every file in manifest against restoredDir by
// sha256, then runs a full chain verification over the restored directory.
// It fails closed: a single mismatched hash or a failed chain verification
// is reported, not swallowed (spec.md §6, §8 "restore(backup(D))" property).
func VerifyRestore(ctx context.Context, manifest Manifest, restoredDir string, cfg config.EventLogConfig) error {
	for _, want := range manifest.Files {
		got, err := hashFile(restoredDir, want.Path)
		if err != nil {
			return err
		}
		if got.SHA256 != want.SHA256 {
			return corerr.Integrity("BACKUP_FILE_HASH_MISMATCH",
				"restored file does not match backup manifest: "+want.Path)
		}
		if got.SizeBytes != want.SizeBytes {
			return corerr.Integrity("BACKUP_FILE_SIZE_MISMATCH",
				"restored file size does not match backup manifest: "+want.Path)
		}
	}

	log, err := eventlog.Open(restoredDir, cfg, nil)
	if err != nil {
		return fmt.Errorf("backup: open restored event log: %w", err)
	}
	result, err := log.VerifyChain(ctx)
	if err != nil {
		return fmt.Errorf("backup: verify restored chain: %w", err)
	}
	if !result.Valid {
		return corerr.Integrity("BACKUP_RESTORE_CHAIN_INVALID", "restored event log failed chain verification: "+result.Reason)
	}

	stats := log.Stats()
	if stats.TotalEntries != manifest.EventLogSummary.TotalEvents {
		return corerr.Integrity("BACKUP_RESTORE_COUNT_MISMATCH", "restored event count does not match manifest")
	}
	if stats.LastHash != manifest.EventLogSummary.LastCurrentHash {
		return corerr.Integrity("BACKUP_RESTORE_HASH_MISMATCH", "restored last_current_hash does not match manifest")
	}

	return nil
}

func hashFile(dir, relPath string) (FileEntry, error) {
	path := filepath.Join(dir, relPath)
	f, err := os.Open(path)
	if err != nil {
		return FileEntry{}, fmt.Errorf("backup: open %s: %w", relPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return FileEntry{}, fmt.Errorf("backup: stat %s: %w", relPath, err)
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return FileEntry{}, fmt.Errorf("backup: hash %s: %w", relPath, err)
	}

	return FileEntry{
		Path:      relPath,
		SizeBytes: info.Size(),
		SHA256:    hex.EncodeToString(h.Sum(nil)),
	}, nil
}
