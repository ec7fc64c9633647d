package eventlog

import (
	"context"
)

// VerifyResult reports the outcome of a chain verification pass.
type VerifyResult struct {
	Valid            bool
	TotalVerified    int
	FirstInvalidIndex int
	Reason           string
}

func invalid(verified int, index int, reason string) VerifyResult {
	return VerifyResult{Valid: false, TotalVerified: verified, FirstInvalidIndex: index, Reason: reason}
}

// VerifyChain walks every entry from genesis, recomputing hashes and
// checking linkage and monotonic id/timestamp ordering. Honors ctx
// cancellation at each segment boundary.
func (l *Log) VerifyChain(ctx context.Context) (VerifyResult, error) {
	nums, err := listSegmentNumbers(l.dir)
	if err != nil {
		return VerifyResult{}, err
	}

	prevHash := GenesisHash
	var prevID string
	var prevTS int64
	verified := 0

	for _, n := range nums {
		select {
		case <-ctx.Done():
			return VerifyResult{Valid: false, TotalVerified: verified, Reason: "cancelled"}, ctx.Err()
		default:
		}

		entries, err := loadSegment(l.dir, n)
		if err != nil {
			return VerifyResult{}, err
		}

		for _, e := range entries {
			if e.PreviousHash != prevHash {
				return invalid(verified, verified, "previous_hash mismatch"), nil
			}
			recomputed, err := computeHash(e)
			if err != nil {
				return VerifyResult{}, err
			}
			if recomputed != e.CurrentHash {
				return invalid(verified, verified, "hash mismatch"), nil
			}
			if verified > 0 {
				if e.ID < prevID {
					return invalid(verified, verified, "id out of order"), nil
				}
				if e.Timestamp.UnixNano() < prevTS {
					return invalid(verified, verified, "timestamp out of order"), nil
				}
			}

			prevHash = e.CurrentHash
			prevID = e.ID
			prevTS = e.Timestamp.UnixNano()
			verified++
		}
	}

	return VerifyResult{Valid: true, TotalVerified: verified}, nil
}

// VerifyFromSnapshot starts at the snapshot's verified tail and walks only
// the remainder — the fast path for boot-time health checks. Falls back to
// a full VerifyChain when the snapshot is absent or corrupt.
func (l *Log) VerifyFromSnapshot(ctx context.Context) (VerifyResult, error) {
	snap, err := loadSnapshot(l.dir)
	if err != nil || snap == nil {
		return l.VerifyChain(ctx)
	}

	segSize := l.cfg.SegmentSize
	if segSize <= 0 {
		return l.VerifyChain(ctx)
	}

	startSeg := snap.VerifiedCount / segSize
	offset := snap.VerifiedCount % segSize

	nums, err := listSegmentNumbers(l.dir)
	if err != nil {
		return VerifyResult{}, err
	}

	prevHash := snap.CurrentHash
	prevID := snap.LastVerifiedID
	prevTS := snap.LastVerifiedTS.UnixNano()
	verified := snap.VerifiedCount
	if verified == 0 {
		prevHash = GenesisHash
	}

	for _, n := range nums {
		if n < startSeg {
			continue
		}
		select {
		case <-ctx.Done():
			return VerifyResult{Valid: false, TotalVerified: verified, Reason: "cancelled"}, ctx.Err()
		default:
		}

		entries, err := loadSegment(l.dir, n)
		if err != nil {
			return VerifyResult{}, err
		}

		start := 0
		if n == startSeg {
			start = offset
		}
		if start > len(entries) {
			return invalid(verified, verified, "snapshot points past end of segment"), nil
		}

		for _, e := range entries[start:] {
			if e.PreviousHash != prevHash {
				return invalid(verified, verified, "previous_hash mismatch"), nil
			}
			recomputed, err := computeHash(e)
			if err != nil {
				return VerifyResult{}, err
			}
			if recomputed != e.CurrentHash {
				return invalid(verified, verified, "hash mismatch"), nil
			}
			if verified > 0 {
				if e.ID < prevID {
					return invalid(verified, verified, "id out of order"), nil
				}
				if e.Timestamp.UnixNano() < prevTS {
					return invalid(verified, verified, "timestamp out of order"), nil
				}
			}
			prevHash = e.CurrentHash
			prevID = e.ID
			prevTS = e.Timestamp.UnixNano()
			verified++
		}
	}

	return VerifyResult{Valid: true, TotalVerified: verified}, nil
}
