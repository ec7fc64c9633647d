package eventlog

import (
	"crypto/sha256"
	"encoding/hex"

	"ledger/internal/canon"
)

// computeHash returns the hex-encoded sha256 hash of entry's canonicalized
// signed view. Canonicalization (internal/canon) guarantees the same
// logical payload hashes identically regardless of map key insertion order.
func computeHash(e Entry) (string, error) {
	payload, err := canon.Canonicalize(e.toSignedView())
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
