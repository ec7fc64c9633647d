// Package idgen owns id and timestamp generation for the orchestrator.
//
// No repository or entity constructs its own id — the Orchestrator owns the
// creation of ids and timestamps (spec.md §3, Ownership), exactly the way
// vantage's executor owns ArtifactID generation via uuid.NewString() at the
// single point evidence is created.
package idgen

import (
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	mu      sync.Mutex
	lastTS  uint64
	counter uint64
)

// New returns a fresh entity id that is both collision-resistant and
// strictly increasing, in plain lexicographic string order, across every
// call this process makes — the property VerifyChain's "ids ... are
// non-decreasing" check (spec.md §7) depends on. A bare uuid.NewString()
// cannot provide it: UUIDv4 is uniformly random, so any real sequence of
// appends is overwhelmingly likely to produce an id smaller than the one
// before it and trip that check on a perfectly legitimate log.
//
// The first 16 hex characters are a hybrid logical clock: a millisecond
// Unix timestamp in the high bits and a counter in the low bits that only
// resets when the timestamp itself advances. Two ids minted in the same
// millisecond, or a system clock that briefly steps backward, still sort
// strictly after everything minted before them — ordering holds by
// construction, not by the accident of a monotonic clock source. The
// trailing UUIDv4 supplies collision resistance and keeps the id
// recognizable; it never has to break a tie, since the clock prefix never
// repeats.
func New() string {
	mu.Lock()
	ts := uint64(time.Now().UTC().UnixMilli())
	if ts <= lastTS {
		ts = lastTS
		counter++
		if counter > 0xFFFF {
			lastTS++
			ts = lastTS
			counter = 0
		}
	} else {
		lastTS = ts
		counter = 0
	}
	clock := make([]byte, 8)
	binary.BigEndian.PutUint64(clock, (ts<<16)|counter)
	mu.Unlock()

	return hex.EncodeToString(clock) + "-" + uuid.NewString()
}

// Now returns the current instant in UTC. Every timestamp recorded by the
// core flows through this function so that a single clock source is
// swappable in tests.
var Now = func() time.Time {
	return time.Now().UTC()
}
