// Package canon canonicalizes event log payloads to a stable byte sequence
// before hashing, so that semantically equal payloads — same keys, same
// values, different insertion order — always produce the same hash.
//
// This generalizes vantage's core/evidence/signature.go canonicalPayload
// approach (a fixed struct marshaled with encoding/json, which is only
// deterministic because the struct's field order never changes) to
// arbitrary map-shaped payloads, which cannot rely on a fixed field order.
// RFC 8785 JSON Canonicalization Scheme gives the recursively-sorted-keys,
// deterministic-number-encoding guarantee spec.md §4.2/§6 asks for.
package canon

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Canonicalize accepts any JSON-marshalable payload and returns its RFC
// 8785 canonical byte form: recursively sorted object keys, deterministic
// number formatting, UTF-8 throughout.
func Canonicalize(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("canon: marshal payload: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canon: transform payload: %w", err)
	}
	return out, nil
}
