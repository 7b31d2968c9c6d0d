// internal/models/room.go
package models

import (
	"fmt"
	"sort"
	"time"
)

// RoomStatus is the lifecycle phase of a room. Operations are only legal in
// specific phases; callers must check before mutating.
type RoomStatus string

const (
	// StatusLobby is the pre-round phase: players gather, no cards are playable.
	StatusLobby RoomStatus = "lobby"
	// StatusInRound is free play: players mark cells on their own cards.
	StatusInRound RoomStatus = "in_round"
	// StatusReview means a bingo claim is under cell-by-cell adjudication.
	StatusReview RoomStatus = "review"
)

// Vote is a voter's verdict on a single claimed cell.
type Vote string

const (
	VoteYes Vote = "yes"
	VoteNo  Vote = "no"
)

// Valid reports whether v is one of the two accepted verdicts.
func (v Vote) Valid() bool {
	return v == VoteYes || v == VoteNo
}

// Player is one participant in a room. Players are never removed within a
// room's lifetime; only their score changes.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	JoinedAt int64  `json:"joinedAt"` // unix millis; stable tie-break for display order
}

// Card is a player's 5x5 grid of lyric-phrase ids plus its mark vector.
type Card struct {
	Grid  []string `json:"grid"`  // 25 phrase ids, center at index 12
	Marks []bool   `json:"marks"` // 25 booleans
}

// CardSize is the number of cells on a card.
const CardSize = 25

// CenterIndex is the fixed board position filled from the center-only pool.
const CenterIndex = 12

// Claim is an in-progress bingo assertion, adjudicated one cell at a time.
// VotesForCurrent is scoped to the cell at CurrentCellPosition only and is
// reset whenever the cursor advances. The claimant never appears as a key.
type Claim struct {
	PlayerID            string          `json:"playerId"`
	LineIndices         []int           `json:"lineIndices"`         // 5 positions forming one row, column, or diagonal
	CurrentCellPosition int             `json:"currentCellPosition"` // cursor into LineIndices, 0..4
	VotesForCurrent     map[string]Vote `json:"votesForCurrent"`
}

// CurrentCellIndex returns the board index of the cell presently under vote.
func (c *Claim) CurrentCellIndex() int {
	return c.LineIndices[c.CurrentCellPosition]
}

// Room is the single document of truth for one game session. Every mutation
// is a read-modify-write of this record followed by an UpdatedAt bump.
type Room struct {
	Code         string             `json:"code"`
	HostID       string             `json:"hostId"`
	Status       RoomStatus         `json:"status"`
	Players      map[string]*Player `json:"players"`
	Cards        map[string]*Card   `json:"cards"`
	CurrentClaim *Claim             `json:"currentClaim"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// Validate checks the room's structural invariants: card/player key parity,
// claim presence tied to review status, and claim shape.
func (r *Room) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("room has empty code")
	}
	if _, ok := r.Players[r.HostID]; !ok {
		return fmt.Errorf("room %s: host %s is not a player", r.Code, r.HostID)
	}
	for id := range r.Players {
		if _, ok := r.Cards[id]; !ok {
			return fmt.Errorf("room %s: player %s has no card", r.Code, id)
		}
	}
	for id, card := range r.Cards {
		if _, ok := r.Players[id]; !ok {
			return fmt.Errorf("room %s: card for unknown player %s", r.Code, id)
		}
		if len(card.Grid) != CardSize || len(card.Marks) != CardSize {
			return fmt.Errorf("room %s: card for %s is not %d cells", r.Code, id, CardSize)
		}
	}
	if (r.CurrentClaim != nil) != (r.Status == StatusReview) {
		return fmt.Errorf("room %s: claim presence (%v) inconsistent with status %q",
			r.Code, r.CurrentClaim != nil, r.Status)
	}
	if cl := r.CurrentClaim; cl != nil {
		if len(cl.LineIndices) != 5 {
			return fmt.Errorf("room %s: claim line has %d indices", r.Code, len(cl.LineIndices))
		}
		if cl.CurrentCellPosition < 0 || cl.CurrentCellPosition > 4 {
			return fmt.Errorf("room %s: claim cursor %d out of range", r.Code, cl.CurrentCellPosition)
		}
		if _, ok := r.Players[cl.PlayerID]; !ok {
			return fmt.Errorf("room %s: claimant %s is not a player", r.Code, cl.PlayerID)
		}
		if _, ok := cl.VotesForCurrent[cl.PlayerID]; ok {
			return fmt.Errorf("room %s: claimant %s has a recorded vote", r.Code, cl.PlayerID)
		}
	}
	return nil
}

// EligibleVoters returns the ids of every player other than the claimant,
// i.e. everyone whose vote is required to resolve the current cell.
func (r *Room) EligibleVoters(claimantID string) []string {
	voters := make([]string, 0, len(r.Players))
	for id := range r.Players {
		if id != claimantID {
			voters = append(voters, id)
		}
	}
	sort.Strings(voters)
	return voters
}

// Scoreboard returns the players ordered for display: score descending,
// then join time ascending, then name.
func (r *Room) Scoreboard() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].JoinedAt != out[j].JoinedAt {
			return out[i].JoinedAt < out[j].JoinedAt
		}
		return out[i].Name < out[j].Name
	})
	return out
}
