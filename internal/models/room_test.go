// internal/models/room_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRoom() *Room {
	now := time.Now().UTC()
	freshCard := func() *Card {
		return &Card{Grid: make([]string, CardSize), Marks: make([]bool, CardSize)}
	}
	return &Room{
		Code:   "ABCD",
		HostID: "p_host",
		Status: StatusLobby,
		Players: map[string]*Player{
			"p_host": {ID: "p_host", Name: "Ada", JoinedAt: now.UnixMilli()},
			"p_two":  {ID: "p_two", Name: "Grace", JoinedAt: now.UnixMilli() + 1},
		},
		Cards: map[string]*Card{
			"p_host": freshCard(),
			"p_two":  freshCard(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestVoteValid(t *testing.T) {
	assert.True(t, VoteYes.Valid())
	assert.True(t, VoteNo.Valid())
	assert.False(t, Vote("").Valid())
	assert.False(t, Vote("maybe").Valid())
}

func TestRoomValidate(t *testing.T) {
	require.NoError(t, validRoom().Validate())

	r := validRoom()
	r.Code = ""
	assert.Error(t, r.Validate())

	r = validRoom()
	r.HostID = "p_ghost"
	assert.Error(t, r.Validate())

	// Player without a card.
	r = validRoom()
	delete(r.Cards, "p_two")
	assert.Error(t, r.Validate())

	// Card without a player.
	r = validRoom()
	delete(r.Players, "p_two")
	assert.Error(t, r.Validate())

	// Wrong card size.
	r = validRoom()
	r.Cards["p_two"].Marks = make([]bool, 24)
	assert.Error(t, r.Validate())

	// Claim outside review, and review without a claim.
	r = validRoom()
	r.CurrentClaim = &Claim{PlayerID: "p_host", LineIndices: []int{0, 1, 2, 3, 4}}
	assert.Error(t, r.Validate())
	r = validRoom()
	r.Status = StatusReview
	assert.Error(t, r.Validate())

	// Claimant appearing in the vote map.
	r = validRoom()
	r.Status = StatusReview
	r.CurrentClaim = &Claim{
		PlayerID:        "p_host",
		LineIndices:     []int{0, 1, 2, 3, 4},
		VotesForCurrent: map[string]Vote{"p_host": VoteYes},
	}
	assert.Error(t, r.Validate())
}

func TestCurrentCellIndex(t *testing.T) {
	c := &Claim{LineIndices: []int{4, 9, 14, 19, 24}, CurrentCellPosition: 2}
	assert.Equal(t, 14, c.CurrentCellIndex())
}

func TestEligibleVoters(t *testing.T) {
	r := validRoom()
	assert.Equal(t, []string{"p_two"}, r.EligibleVoters("p_host"))
	assert.Equal(t, []string{"p_host"}, r.EligibleVoters("p_two"))

	// Solo room: nobody to vote.
	delete(r.Players, "p_two")
	assert.Empty(t, r.EligibleVoters("p_host"))
}

func TestScoreboardOrdering(t *testing.T) {
	r := validRoom()
	r.Players = map[string]*Player{
		"a": {ID: "a", Name: "Ada", Score: 1, JoinedAt: 100},
		"b": {ID: "b", Name: "Grace", Score: 3, JoinedAt: 300},
		"c": {ID: "c", Name: "Joan", Score: 1, JoinedAt: 50},
		"d": {ID: "d", Name: "Barbara", Score: 1, JoinedAt: 100},
	}

	board := r.Scoreboard()
	ids := make([]string, 0, len(board))
	for _, p := range board {
		ids = append(ids, p.ID)
	}
	// Highest score first, earlier joiners break ties, then name.
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
}
