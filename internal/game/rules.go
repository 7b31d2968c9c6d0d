// internal/game/rules.go
package game

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"lyricbingo/internal/models"
)

// roomCodeAlphabet is 23 uppercase letters with the visually confusable
// I, L, and O removed.
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ"

// roomCodeLength is the length of a room code.
const roomCodeLength = 4

// NewRoomCode generates a random room code. Uniqueness is not checked here;
// the store's create semantics reject collisions and the caller retries.
func NewRoomCode() string {
	var b strings.Builder
	b.Grow(roomCodeLength)
	for i := 0; i < roomCodeLength; i++ {
		b.WriteByte(roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))])
	}
	return b.String()
}

// NewPlayerID generates an opaque player token for clients that did not
// bring their own. Tokens are self-asserted and never server-validated.
func NewPlayerID() string {
	return "p_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// AllVotesIn reports whether every eligible voter has a recorded vote for
// the current cell. A cell resolves only once this holds.
func AllVotesIn(voters []string, votes map[string]models.Vote) bool {
	for _, id := range voters {
		if _, ok := votes[id]; !ok {
			return false
		}
	}
	return true
}

// CellAccepted applies the majority rule to a fully-voted cell: the cell is
// accepted when yes-votes reach at least half of the eligible voters, so a
// tie goes to approval.
func CellAccepted(voters []string, votes map[string]models.Vote) bool {
	yes := 0
	for _, id := range voters {
		if votes[id] == models.VoteYes {
			yes++
		}
	}
	return yes*2 >= len(voters)
}
