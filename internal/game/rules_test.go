// internal/game/rules_test.go
package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"lyricbingo/internal/models"
)

func TestNewRoomCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewRoomCode()
		assert.Len(t, code, roomCodeLength)
		for _, ch := range code {
			assert.Contains(t, roomCodeAlphabet, string(ch))
		}
		// Confusable letters are excluded from the alphabet.
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "L")
		assert.NotContains(t, code, "O")
	}
}

func TestNewPlayerID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewPlayerID()
		assert.True(t, strings.HasPrefix(id, "p_"))
		assert.Len(t, id, 14)
		assert.False(t, seen[id], "token collision")
		seen[id] = true
	}
}

func TestAllVotesIn(t *testing.T) {
	voters := []string{"a", "b", "c"}

	assert.False(t, AllVotesIn(voters, nil))
	assert.False(t, AllVotesIn(voters, map[string]models.Vote{"a": models.VoteYes, "b": models.VoteNo}))
	assert.True(t, AllVotesIn(voters, map[string]models.Vote{
		"a": models.VoteYes, "b": models.VoteNo, "c": models.VoteYes,
	}))
	// Extra keys (e.g. stale entries) do not block resolution.
	assert.True(t, AllVotesIn([]string{"a"}, map[string]models.Vote{"a": models.VoteYes, "z": models.VoteNo}))
	// Zero eligible voters is vacuously complete.
	assert.True(t, AllVotesIn(nil, nil))
}

func TestCellAccepted(t *testing.T) {
	yes := models.VoteYes
	no := models.VoteNo

	// Unanimous.
	assert.True(t, CellAccepted([]string{"a", "b"}, map[string]models.Vote{"a": yes, "b": yes}))
	// Exact tie goes to approval.
	assert.True(t, CellAccepted([]string{"a", "b"}, map[string]models.Vote{"a": yes, "b": no}))
	assert.True(t, CellAccepted([]string{"a", "b", "c", "d"}, map[string]models.Vote{
		"a": yes, "b": yes, "c": no, "d": no,
	}))
	// Strict minority fails.
	assert.False(t, CellAccepted([]string{"a", "b", "c"}, map[string]models.Vote{
		"a": yes, "b": no, "c": no,
	}))
	assert.False(t, CellAccepted([]string{"a", "b"}, map[string]models.Vote{"a": no, "b": no}))
}
