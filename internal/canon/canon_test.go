package canon

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// TestCanonicalizeInvariantUnderKeyPermutation checks the round-trip law
// from spec.md §8: hash(canonicalize(payload)) is invariant under
// permutation of map keys.
func TestCanonicalizeInvariantUnderKeyPermutation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("map key order does not affect canonical bytes", prop.ForAll(
		func(a, b, c int) bool {
			m1 := map[string]any{"a": a, "b": b, "c": c}
			// Built via a different map (Go map iteration order is random
			// by construction already, but rebuild explicitly for clarity).
			m2 := map[string]any{"c": c, "a": a, "b": b}

			out1, err1 := Canonicalize(m1)
			out2, err2 := Canonicalize(m2)
			if err1 != nil || err2 != nil {
				return false
			}
			return string(out1) == string(out2)
		},
		gen.Int(), gen.Int(), gen.Int(),
	))

	properties.TestingRun(t)
}

func TestCanonicalizeNestedObjectsSorted(t *testing.T) {
	out, err := Canonicalize(map[string]any{
		"z": 1,
		"a": map[string]any{"y": 2, "x": 1},
	})
	require.NoError(t, err)
	require.Equal(t, `{"a":{"x":1,"y":2},"z":1}`, string(out))
}
