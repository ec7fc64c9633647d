package eventlog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"ledger/internal/config"
	"ledger/internal/fsutil"
	"ledger/internal/idgen"
)

// Log is the append-only, hash-chained, segmented event log for a single
// tenant instance.
//
// Grounded on core/evidence/signature.go's Sign/Verify pattern (sha256 over
// a canonical payload) generalized into a chain, with the append/rotate/
// snapshot lifecycle spec.md §4.2 defines.
type Log struct {
	dir    string
	cfg    config.EventLogConfig
	logger *zap.Logger

	lock *fsutil.WriteLock // serializes appends and rotations

	mu             sync.RWMutex // guards the fields below for readers
	curSegmentNum  int
	curEntries     []Entry
	lastHash       string
	lastID         string
	lastTimestamp  time.Time
	totalCount     int
	sinceSnapshot  int
}

// Open loads (or initializes) the event log rooted at dir.
func Open(dir string, cfg config.EventLogConfig, logger *zap.Logger) (*Log, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("eventlog: create dir %s: %w", dir, err)
	}

	l := &Log{
		dir:      dir,
		cfg:      cfg,
		logger:   logger,
		lock:     fsutil.NewWriteLock(),
		lastHash: GenesisHash,
	}

	nums, err := listSegmentNumbers(dir)
	if err != nil {
		return nil, err
	}

	if len(nums) == 0 {
		return l, nil
	}

	total := 0
	for _, n := range nums[:len(nums)-1] {
		entries, err := loadSegment(dir, n)
		if err != nil {
			return nil, err
		}
		total += len(entries)
	}

	lastNum := nums[len(nums)-1]
	tail, err := loadSegment(dir, lastNum)
	if err != nil {
		return nil, err
	}
	total += len(tail)

	l.curSegmentNum = lastNum
	l.curEntries = tail
	l.totalCount = total

	if len(tail) > 0 {
		last := tail[len(tail)-1]
		l.lastHash = last.CurrentHash
		l.lastID = last.ID
		l.lastTimestamp = last.Timestamp
	}

	// sinceSnapshot is recovered relative to the persisted snapshot so a
	// restart doesn't immediately force a snapshot rewrite nor silently
	// skip one that was already due.
	if snap, _ := loadSnapshot(dir); snap != nil {
		l.sinceSnapshot = total - snap.VerifiedCount
		if l.sinceSnapshot < 0 {
			l.sinceSnapshot = 0
		}
	} else {
		l.sinceSnapshot = total
	}

	return l, nil
}

// Append generates an id and timestamp, links the new entry to the prior
// entry's hash, extends the current segment, rotates segments and rewrites
// the snapshot as configured. Appends are serialized by an in-process FIFO
// lock; the chain's correctness depends on this serialization.
func (l *Log) Append(actor, eventType, entityType, entityID string, payload map[string]any) (Entry, error) {
	l.lock.Acquire()
	defer l.lock.Release()

	l.mu.Lock()
	prevHash := l.lastHash
	segNum := l.curSegmentNum
	entriesInSegment := len(l.curEntries)
	l.mu.Unlock()

	entry := Entry{
		ID:           idgen.New(),
		Timestamp:    idgen.Now(),
		Actor:        actor,
		EventType:    eventType,
		EntityType:   entityType,
		EntityID:     entityID,
		Payload:      payload,
		PreviousHash: prevHash,
	}

	hash, err := computeHash(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("eventlog: compute hash: %w", err)
	}
	entry.CurrentHash = hash

	newSegmentEntries := make([]Entry, entriesInSegment, entriesInSegment+1)
	l.mu.RLock()
	copy(newSegmentEntries, l.curEntries)
	l.mu.RUnlock()
	newSegmentEntries = append(newSegmentEntries, entry)

	if err := saveSegment(l.dir, segNum, newSegmentEntries); err != nil {
		l.logger.Error("eventlog append failed", zap.Error(err), zap.String("event_type", eventType))
		return Entry{}, err
	}

	l.mu.Lock()
	l.curEntries = newSegmentEntries
	l.lastHash = entry.CurrentHash
	l.lastID = entry.ID
	l.lastTimestamp = entry.Timestamp
	l.totalCount++
	l.sinceSnapshot++

	rotate := len(l.curEntries) >= l.cfg.SegmentSize
	snapshotDue := l.sinceSnapshot >= l.cfg.SnapshotEvery
	snap := Snapshot{
		VerifiedCount:        l.totalCount,
		LastVerifiedID:       l.lastID,
		LastVerifiedTS:       l.lastTimestamp,
		CurrentHash:          l.lastHash,
		CurrentSegmentNumber: l.curSegmentNum,
	}
	nextSegNum := l.curSegmentNum
	l.mu.Unlock()

	if rotate {
		nextSegNum = segNum + 1
		l.mu.Lock()
		l.curSegmentNum = nextSegNum
		l.curEntries = nil
		l.mu.Unlock()
		l.logger.Info("eventlog segment rotated", zap.Int("closed_segment", segNum), zap.Int("next_segment", nextSegNum))

		if err := l.pruneRetention(); err != nil {
			l.logger.Warn("eventlog retention prune failed", zap.Error(err))
		}
	}

	if snapshotDue {
		snap.CurrentSegmentNumber = segNum
		if err := saveSnapshot(l.dir, snap); err != nil {
			l.logger.Warn("eventlog snapshot rewrite failed", zap.Error(err))
		} else {
			l.mu.Lock()
			l.sinceSnapshot = 0
			l.mu.Unlock()
		}
	}

	return entry, nil
}

// Stats reports counters readers can use to describe log health without
// walking the chain.
type Stats struct {
	TotalEntries  int
	CurrentSegment int
	LastID        string
	LastTimestamp time.Time
	LastHash      string
}

func (l *Log) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Stats{
		TotalEntries:   l.totalCount,
		CurrentSegment: l.curSegmentNum,
		LastID:         l.lastID,
		LastTimestamp:  l.lastTimestamp,
		LastHash:       l.lastHash,
	}
}

// pruneRetention removes closed segments beyond retention_segments. The
// genesis segment (0) is never removed while any later segment exists
// (spec.md §4.2 Retention).
func (l *Log) pruneRetention() error {
	if l.cfg.RetentionSegments <= 0 {
		return nil
	}
	nums, err := listSegmentNumbers(l.dir)
	if err != nil {
		return err
	}
	// Only closed segments (numbered below the currently open one) are
	// eligible for removal. Pruning runs right after a rotation, before the
	// newly opened segment has a file of its own.
	l.mu.RLock()
	open := l.curSegmentNum
	l.mu.RUnlock()
	var closed []int
	for _, n := range nums {
		if n < open {
			closed = append(closed, n)
		}
	}
	if len(closed) <= l.cfg.RetentionSegments {
		return nil
	}
	toRemove := closed[:len(closed)-l.cfg.RetentionSegments]
	for _, n := range toRemove {
		if n == 0 {
			continue
		}
		if err := os.Remove(segmentPath(l.dir, n)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("eventlog: prune segment %d: %w", n, err)
		}
	}
	return nil
}
