package eventlog

import (
	"context"
	"time"

	"ledger/internal/corerr"
)

// ExportRangeInput bounds an export by timestamp or segment span. Zero
// values mean "unbounded on that side".
type ExportRangeInput struct {
	FromTS      *time.Time
	ToTS        *time.Time
	FromSegment *int
	ToSegment   *int
}

// ExportManifest describes an exported slice without needing to re-walk it.
type ExportManifest struct {
	FirstID              string
	LastID               string
	FirstTimestamp       time.Time
	LastTimestamp        time.Time
	Count                int
	FirstSegment         int
	LastSegment          int
	ChainValidWithinExport bool
}

// ExportRange returns a contiguous slice of entries plus a manifest. Bounded
// by MAX_EVENTS_EXPORT: a candidate slice larger than the cap fails with a
// Capacity error instead of silently truncating (spec.md §4.2/§8).
func (l *Log) ExportRange(ctx context.Context, in ExportRangeInput) ([]Entry, ExportManifest, error) {
	nums, err := listSegmentNumbers(l.dir)
	if err != nil {
		return nil, ExportManifest{}, err
	}

	var out []Entry
	for _, n := range nums {
		if in.FromSegment != nil && n < *in.FromSegment {
			continue
		}
		if in.ToSegment != nil && n > *in.ToSegment {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ExportManifest{}, ctx.Err()
		default:
		}

		entries, err := loadSegment(l.dir, n)
		if err != nil {
			return nil, ExportManifest{}, err
		}

		for _, e := range entries {
			if in.FromTS != nil && e.Timestamp.Before(*in.FromTS) {
				continue
			}
			if in.ToTS != nil && e.Timestamp.After(*in.ToTS) {
				continue
			}
			out = append(out, e)
			if len(out) > l.cfg.MaxEventsExport {
				return nil, ExportManifest{}, corerr.Capacity(
					"EXPORT_TOO_LARGE",
					"candidate export slice exceeds MAX_EVENTS_EXPORT; paginate via timestamps",
				)
			}
		}
	}

	if len(out) == 0 {
		return out, ExportManifest{}, nil
	}

	chainValid := true
	prevHash := out[0].PreviousHash
	for _, e := range out {
		if e.PreviousHash != prevHash {
			chainValid = false
			break
		}
		recomputed, err := computeHash(e)
		if err != nil || recomputed != e.CurrentHash {
			chainValid = false
			break
		}
		prevHash = e.CurrentHash
	}

	manifest := ExportManifest{
		FirstID:                out[0].ID,
		LastID:                 out[len(out)-1].ID,
		FirstTimestamp:         out[0].Timestamp,
		LastTimestamp:          out[len(out)-1].Timestamp,
		Count:                  len(out),
		ChainValidWithinExport: chainValid,
	}
	if in.FromSegment != nil {
		manifest.FirstSegment = *in.FromSegment
	}
	if in.ToSegment != nil {
		manifest.LastSegment = *in.ToSegment
	} else if len(nums) > 0 {
		manifest.LastSegment = nums[len(nums)-1]
	}

	return out, manifest, nil
}
