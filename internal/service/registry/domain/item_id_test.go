package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeID(t *testing.T, raw string) ItemID {
	t.Helper()
	var id ItemID
	require.NoError(t, json.Unmarshal([]byte(raw), &id))
	return id
}

func TestItemID_Matches(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		requested string
		want      bool
	}{
		{"same number", `3`, `3`, true},
		{"numeric string against number", `3`, `"3"`, true},
		{"padded numeric string against number", `3`, `" 3 "`, true},
		{"decimal spelling against number", `3`, `3.0`, true},
		{"same string", `"abc"`, `"abc"`, true},
		{"different number", `3`, `4`, false},
		{"non-numeric string against number", `3`, `"three"`, false},
		{"number against string id", `"3"`, `3`, false},
		{"blank string coerces to zero", `0`, `""`, true},
		{"null never matches", `1`, `null`, false},
		{"true coerces to one", `1`, `true`, true},
		{"true against other number", `2`, `true`, false},
		{"false coerces to zero", `0`, `false`, true},
		{"boolean never matches a string id", `"1"`, `true`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := decodeID(t, tt.stored)
			requested := decodeID(t, tt.requested)
			assert.Equal(t, tt.want, stored.Matches(requested))
		})
	}
}

func TestItemID_IsZero(t *testing.T) {
	assert.True(t, ItemID{}.IsZero())
	assert.True(t, decodeID(t, `null`).IsZero())
	assert.True(t, decodeID(t, `""`).IsZero())
	assert.True(t, decodeID(t, `0`).IsZero())
	assert.True(t, decodeID(t, `false`).IsZero())
	assert.False(t, decodeID(t, `true`).IsZero())
	assert.False(t, decodeID(t, `"0"`).IsZero())
	assert.False(t, IntID(7).IsZero())
	assert.False(t, StringID("x").IsZero())
}

func TestItemID_RoundTripKeepsLiteral(t *testing.T) {
	for _, raw := range []string{`12`, `1e2`, `"a&b"`, `"<b>"`, `true`} {
		out, err := decodeID(t, raw).MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, raw, string(out))
	}
}

func TestItemID_RejectsOtherTypes(t *testing.T) {
	for _, raw := range []string{`{}`, `[1]`, `tru`} {
		var id ItemID
		assert.Error(t, json.Unmarshal([]byte(raw), &id), raw)
	}
}
