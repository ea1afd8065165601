// Package lane derives the storage partition key for a user's
// conversation lanes. Each lane (general chat, goal assistant, notes
// assistant) maps to exactly one chat session per user, so the key must
// be deterministic: the same (user, lane) pair always resolves to the
// same key, and distinct lanes never collide.
//
// Keys are opaque: a lane prefix plus a short SHA-256 digest of the
// user id and lane name. They deliberately carry no user attributes
// like email, so changing a user's profile can never orphan history.
package lane

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

type Lane string

const (
	General Lane = "general"
	Goal    Lane = "goal"
	Notes   Lane = "notes"
)

// All lists every known lane.
var All = []Lane{General, Goal, Notes}

// Parse validates a client-supplied lane name.
func Parse(s string) (Lane, error) {
	switch Lane(s) {
	case General, Goal, Notes:
		return Lane(s), nil
	}
	return "", fmt.Errorf("unknown lane %q", s)
}

// Key returns the session key for a (user, lane) pair. It is pure and
// deterministic. Calling Key with a lane outside the known set is a
// programming error and panics.
func Key(userID string, l Lane) string {
	switch l {
	case General, Goal, Notes:
	default:
		panic(fmt.Sprintf("lane: unknown lane %q", l))
	}
	sum := sha256.Sum256([]byte(userID + "|" + string(l)))
	return string(l) + "_" + hex.EncodeToString(sum[:10])
}
