package lane

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("user-1", General)
	b := Key("user-1", General)
	assert.Equal(t, a, b)
}

func TestKeyDistinctAcrossLanes(t *testing.T) {
	seen := map[string]Lane{}
	for _, l := range All {
		k := Key("user-1", l)
		prev, dup := seen[k]
		assert.False(t, dup, "lane %s collides with %s", l, prev)
		seen[k] = l
	}
}

func TestKeyDistinctAcrossUsers(t *testing.T) {
	assert.NotEqual(t, Key("user-1", Goal), Key("user-2", Goal))
}

func TestKeyPrefix(t *testing.T) {
	tests := []struct {
		lane   Lane
		prefix string
	}{
		{General, "general_"},
		{Goal, "goal_"},
		{Notes, "notes_"},
	}
	for _, tt := range tests {
		k := Key("user-1", tt.lane)
		assert.Equal(t, tt.prefix, k[:len(tt.prefix)])
	}
}

func TestKeyUnknownLanePanics(t *testing.T) {
	assert.Panics(t, func() { Key("user-1", Lane("bogus")) })
}

func TestParse(t *testing.T) {
	for _, l := range All {
		got, err := Parse(string(l))
		assert.NoError(t, err)
		assert.Equal(t, l, got)
	}

	_, err := Parse("voice")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}
