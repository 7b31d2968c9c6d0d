// internal/game/engine.go
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"lyricbingo/internal/archive"
	"lyricbingo/internal/deck"
	"lyricbingo/internal/metrics"
	"lyricbingo/internal/models"
	"lyricbingo/internal/store"
)

var (
	// ErrNameRequired means the player supplied an empty display name.
	ErrNameRequired = errors.New("game: player name is required")
	// ErrRoomNotFound mirrors the store's not-found for callers of the engine.
	ErrRoomNotFound = store.ErrRoomNotFound
	// ErrNotHost is returned when a non-host attempts a host-only transition.
	ErrNotHost = errors.New("game: only the host may do that")
	// ErrWrongPhase is returned when an operation is attempted outside the
	// room status it is legal in.
	ErrWrongPhase = errors.New("game: operation not legal in current room status")
	// ErrUnknownPlayer means the acting player has no seat (or card) in the room.
	ErrUnknownPlayer = errors.New("game: player is not in the room")
	// ErrNoWinningLine is the normal negative outcome of a bingo call: the
	// caller's board has no complete line. Play continues unchanged.
	ErrNoWinningLine = errors.New("game: no complete line on the card")
	// ErrClaimantCannotVote rejects a vote submitted by the claim's owner.
	ErrClaimantCannotVote = errors.New("game: claimant cannot vote on their own claim")
	// ErrInvalidVote rejects a verdict other than yes or no.
	ErrInvalidVote = errors.New(`game: vote must be "yes" or "no"`)
	// ErrInvalidCell rejects a board index outside 0..24.
	ErrInvalidCell = errors.New("game: cell index out of range")
)

// createAttempts bounds room-code collision retries. With a 23^4 code space
// a second collision in a row is already vanishingly unlikely.
const createAttempts = 5

// Resolution is the outcome of a resolve attempt.
type Resolution int

const (
	// ResolutionNone: no claim was active, nothing happened.
	ResolutionNone Resolution = iota
	// ResolutionPending: votes are still outstanding, nothing happened.
	ResolutionPending
	// ResolutionAdvanced: the current cell was accepted and the cursor moved on.
	ResolutionAdvanced
	// ResolutionRejected: the current cell was voted down; the claim failed,
	// the cell was unmarked, and play resumed.
	ResolutionRejected
	// ResolutionAwarded: the final cell was accepted; the claimant scored and
	// every card was redealt.
	ResolutionAwarded
)

func (r Resolution) String() string {
	switch r {
	case ResolutionPending:
		return "pending"
	case ResolutionAdvanced:
		return "advanced"
	case ResolutionRejected:
		return "rejected"
	case ResolutionAwarded:
		return "awarded"
	default:
		return "none"
	}
}

// Recorder receives durable after-the-fact records of game activity.
// Implemented by the Postgres archive; nil-able so tests and storeless
// deployments skip it.
type Recorder interface {
	RecordRoomCreated(ctx context.Context, code, hostID string) error
	RecordAward(ctx context.Context, award archive.Award) error
}

// Engine is the claim/vote/resolve state machine. It holds no game state of
// its own: every operation is a transaction against the room document in the
// store, so any number of engine instances (one per server node) can operate
// on the same rooms safely.
type Engine struct {
	store    store.RoomStore
	deck     *deck.Deck
	log      *logrus.Logger
	recorder Recorder
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRecorder attaches a durable activity recorder.
func WithRecorder(r Recorder) EngineOption {
	return func(e *Engine) { e.recorder = r }
}

// NewEngine builds an engine on top of a room store and a deck.
func NewEngine(st store.RoomStore, d *deck.Deck, log *logrus.Logger, opts ...EngineOption) *Engine {
	e := &Engine{store: st, deck: d, log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateRoom creates a room with the caller as host, dealing them a card.
// A blank playerID gets a freshly generated token. Code collisions are
// retried with a new code.
func (e *Engine) CreateRoom(ctx context.Context, playerID, name string) (*models.Room, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if playerID == "" {
		playerID = NewPlayerID()
	}

	now := time.Now().UTC()
	room := &models.Room{
		HostID: playerID,
		Status: models.StatusLobby,
		Players: map[string]*models.Player{
			playerID: {ID: playerID, Name: name, JoinedAt: now.UnixMilli()},
		},
		Cards: map[string]*models.Card{
			playerID: e.deck.MakeCard(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		room.Code = NewRoomCode()
		err := e.store.Create(ctx, room)
		if errors.Is(err, store.ErrRoomExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create room: %w", err)
		}

		metrics.RoomsCreated.Inc()
		e.log.WithFields(logrus.Fields{
			"room": room.Code,
			"host": playerID,
		}).Info("room created")
		e.record(func(rctx context.Context) error {
			return e.recorder.RecordRoomCreated(rctx, room.Code, playerID)
		})
		return room, nil
	}
	return nil, fmt.Errorf("create room: could not find a free code in %d attempts", createAttempts)
}

// JoinRoom adds a player to an existing room and deals them a card. Joining
// with a token that already holds a seat is an idempotent no-op.
func (e *Engine) JoinRoom(ctx context.Context, code, playerID, name string) (*models.Room, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if playerID == "" {
		playerID = NewPlayerID()
	}

	room, err := e.store.Read(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, ok := room.Players[playerID]; ok {
		return room, nil // already seated
	}

	now := time.Now().UTC()
	player := &models.Player{ID: playerID, Name: name, JoinedAt: now.UnixMilli()}
	card := e.deck.MakeCard()
	err = e.store.UpdateFields(ctx, code, map[string]any{
		"players." + playerID: player,
		"cards." + playerID:   card,
		"updatedAt":           now,
	})
	if err != nil {
		return nil, fmt.Errorf("join room %s: %w", code, err)
	}

	metrics.PlayersJoined.Inc()
	e.log.WithFields(logrus.Fields{
		"room":   code,
		"player": playerID,
	}).Info("player joined")

	room.Players[playerID] = player
	room.Cards[playerID] = card
	room.UpdatedAt = now
	return room, nil
}

// StartRound moves the room from lobby into free play. Host only.
func (e *Engine) StartRound(ctx context.Context, code, callerID string) error {
	return e.store.Transact(ctx, code, func(room *models.Room) (bool, error) {
		if room.HostID != callerID {
			return false, ErrNotHost
		}
		if room.Status != models.StatusLobby {
			return false, ErrWrongPhase
		}
		room.Status = models.StatusInRound
		room.UpdatedAt = time.Now().UTC()
		return true, nil
	})
}

// ReturnToLobby forces the room back to the lobby, discarding any in-flight
// claim. Host only; this is also the escape hatch for a claim stuck waiting
// on a voter who left.
func (e *Engine) ReturnToLobby(ctx context.Context, code, callerID string) error {
	return e.store.Transact(ctx, code, func(room *models.Room) (bool, error) {
		if room.HostID != callerID {
			return false, ErrNotHost
		}
		if room.Status == models.StatusLobby {
			return false, nil // already there
		}
		room.Status = models.StatusLobby
		room.CurrentClaim = nil
		room.UpdatedAt = time.Now().UTC()
		return true, nil
	})
}

// ToggleMark flips one cell on the player's own card. Legal only during free
// play; any other phase is a rejected precondition.
func (e *Engine) ToggleMark(ctx context.Context, code, playerID string, cell int) error {
	if cell < 0 || cell >= models.CardSize {
		return ErrInvalidCell
	}
	return e.store.Transact(ctx, code, func(room *models.Room) (bool, error) {
		if room.Status != models.StatusInRound {
			return false, ErrWrongPhase
		}
		card, ok := room.Cards[playerID]
		if !ok {
			return false, ErrUnknownPlayer
		}
		card.Marks[cell] = !card.Marks[cell]
		room.UpdatedAt = time.Now().UTC()
		return true, nil
	})
}

// CallBingo verifies the caller's board and, if a line is complete, opens a
// claim on it and moves the room into review. A board with no complete line
// returns ErrNoWinningLine and leaves the room untouched; that is a normal
// negative result, not a fault.
func (e *Engine) CallBingo(ctx context.Context, code, playerID string) (*models.Claim, error) {
	var claim *models.Claim
	err := e.store.Transact(ctx, code, func(room *models.Room) (bool, error) {
		if room.Status != models.StatusInRound {
			return false, ErrWrongPhase
		}
		card, ok := room.Cards[playerID]
		if !ok {
			return false, ErrUnknownPlayer
		}
		line := FindWinningLine(card.Marks)
		if line == nil {
			return false, ErrNoWinningLine
		}
		claim = &models.Claim{
			PlayerID:            playerID,
			LineIndices:         line,
			CurrentCellPosition: 0,
			VotesForCurrent:     map[string]models.Vote{},
		}
		room.CurrentClaim = claim
		room.Status = models.StatusReview
		room.UpdatedAt = time.Now().UTC()
		return true, nil
	})
	if err != nil {
		if errors.Is(err, ErrNoWinningLine) {
			metrics.ClaimsNoLine.Inc()
		}
		return nil, err
	}

	metrics.ClaimsStarted.Inc()
	e.log.WithFields(logrus.Fields{
		"room":     code,
		"claimant": playerID,
		"line":     claim.LineIndices,
	}).Info("bingo called")
	return claim, nil
}

// Vote records a voter's verdict on the cell currently under review. The
// submitted cell position must still match the claim's cursor at transaction
// time; a stale vote is silently dropped, never an error. A voter may
// overwrite their own earlier vote for the same cell.
func (e *Engine) Vote(ctx context.Context, code, voterID string, v models.Vote, cellPosition int) error {
	if !v.Valid() {
		return ErrInvalidVote
	}
	accepted := false
	err := e.store.Transact(ctx, code, func(room *models.Room) (bool, error) {
		claim := room.CurrentClaim
		if claim == nil {
			return false, ErrWrongPhase
		}
		if voterID == claim.PlayerID {
			return false, ErrClaimantCannotVote
		}
		if _, ok := room.Players[voterID]; !ok {
			return false, ErrUnknownPlayer
		}
		if claim.CurrentCellPosition != cellPosition {
			return false, nil // cursor moved on; drop the stale vote
		}
		if claim.VotesForCurrent == nil {
			claim.VotesForCurrent = map[string]models.Vote{}
		}
		claim.VotesForCurrent[voterID] = v
		room.UpdatedAt = time.Now().UTC()
		accepted = true
		return true, nil
	})
	if err != nil {
		return err
	}
	if accepted {
		metrics.VotesCast.Inc()
	}
	return nil
}

// Resolve checks whether the current cell has every required vote and, if
// so, applies the accept/reject/advance/award transition. It is safe to call
// speculatively from any client at any time: resolving with votes
// outstanding is a no-op, and concurrent resolvers are serialized by the
// store so exactly one of them advances the claim.
func (e *Engine) Resolve(ctx context.Context, code string) (Resolution, error) {
	res := ResolutionNone
	var award *archive.Award

	err := e.store.Transact(ctx, code, func(room *models.Room) (bool, error) {
		res, award = ResolutionNone, nil

		claim := room.CurrentClaim
		if claim == nil {
			return false, nil // already resolved by another client
		}
		voters := room.EligibleVoters(claim.PlayerID)

		// Solo room: no eligible voters, the claim stands as called.
		if len(voters) == 0 {
			award = e.awardBingo(room, claim.PlayerID)
			res = ResolutionAwarded
			return true, nil
		}

		if !AllVotesIn(voters, claim.VotesForCurrent) {
			res = ResolutionPending
			return false, nil
		}

		if !CellAccepted(voters, claim.VotesForCurrent) {
			// The claim fails whole: unmark only the cell that lost the vote
			// and hand the board back unchanged otherwise. A missing card
			// means a corrupted document; the claim still has to be cleared.
			if card, ok := room.Cards[claim.PlayerID]; ok {
				card.Marks[claim.CurrentCellIndex()] = false
			}
			room.CurrentClaim = nil
			room.Status = models.StatusInRound
			room.UpdatedAt = time.Now().UTC()
			res = ResolutionRejected
			return true, nil
		}

		if claim.CurrentCellPosition < len(claim.LineIndices)-1 {
			claim.CurrentCellPosition++
			claim.VotesForCurrent = map[string]models.Vote{}
			room.UpdatedAt = time.Now().UTC()
			res = ResolutionAdvanced
			return true, nil
		}

		award = e.awardBingo(room, claim.PlayerID)
		res = ResolutionAwarded
		return true, nil
	})
	if err != nil {
		return ResolutionNone, err
	}

	switch res {
	case ResolutionRejected:
		metrics.ClaimsRejected.Inc()
		e.log.WithField("room", code).Info("claim rejected")
	case ResolutionAwarded:
		metrics.BingosAwarded.Inc()
		e.log.WithFields(logrus.Fields{
			"room":   code,
			"player": award.PlayerID,
			"score":  award.Score,
		}).Info("bingo awarded")
		e.record(func(rctx context.Context) error {
			return e.recorder.RecordAward(rctx, *award)
		})
	}
	return res, nil
}

// awardBingo applies the full-acceptance transition in place: one point to
// the claimant, a fresh card for every player, claim cleared, play resumed.
func (e *Engine) awardBingo(room *models.Room, claimantID string) *archive.Award {
	claimant := room.Players[claimantID]
	claimant.Score++
	for id := range room.Players {
		room.Cards[id] = e.deck.MakeCard()
	}
	room.CurrentClaim = nil
	room.Status = models.StatusInRound
	room.UpdatedAt = time.Now().UTC()

	return &archive.Award{
		RoomCode:   room.Code,
		PlayerID:   claimantID,
		PlayerName: claimant.Name,
		Score:      claimant.Score,
		AwardedAt:  room.UpdatedAt,
	}
}

// record runs a recorder call in the background. Archive failures must never
// affect the game transaction that already committed.
func (e *Engine) record(fn func(ctx context.Context) error) {
	if e.recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			e.log.WithError(err).Warn("archive write failed")
		}
	}()
}
