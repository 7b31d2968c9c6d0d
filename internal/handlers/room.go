// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"lyricbingo/internal/game"
	"lyricbingo/internal/models"
	"lyricbingo/internal/store"
)

type createRoomRequest struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type joinRoomRequest struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type roomResponse struct {
	Code     string       `json:"code"`
	PlayerID string       `json:"playerId"`
	Room     *models.Room `json:"room"`
}

// CreateRoomHandler creates a room with the caller as host. The player id is
// a client-generated opaque token; callers without one get a fresh token in
// the response and are expected to persist it locally.
func (s *Server) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	if !s.createLimiter.Allow(clientAddr(r)) {
		http.Error(w, "too many rooms created, slow down", http.StatusTooManyRequests)
		return
	}

	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}

	room, err := s.Engine.CreateRoom(r.Context(), req.PlayerID, strings.TrimSpace(req.Name))
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, roomResponse{Code: room.Code, PlayerID: room.HostID, Room: room})
}

// JoinRoomHandler seats a player in an existing room. Joining with a token
// that already holds a seat is a no-op that still returns the room.
func (s *Server) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		http.Error(w, "room code is required", http.StatusBadRequest)
		return
	}
	playerID := req.PlayerID
	if playerID == "" {
		playerID = game.NewPlayerID()
	}

	room, err := s.Engine.JoinRoom(r.Context(), code, playerID, strings.TrimSpace(req.Name))
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roomResponse{Code: code, PlayerID: playerID, Room: room})
}

// GetRoomHandler returns a point-in-time room snapshot, used for the first
// render before the websocket subscription is up.
func (s *Server) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	room, err := s.Store.Read(r.Context(), code)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// RoomQRHandler renders a QR code for the room's join link, so players on
// the same couch can scan in instead of typing the code.
func (s *Server) RoomQRHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	if _, err := s.Store.Read(r.Context(), code); err != nil {
		s.writeGameError(w, err)
		return
	}

	joinURL := fmt.Sprintf("%s/join/%s", strings.TrimSuffix(s.BaseURL, "/"), code)
	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		s.Log.WithError(err).Error("failed to encode QR code")
		http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// writeGameError maps engine errors onto HTTP statuses. Precondition-stale
// outcomes never reach here; they are silent no-ops inside the engine.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRoomNotFound):
		http.Error(w, "room not found", http.StatusNotFound)
	case errors.Is(err, game.ErrNameRequired),
		errors.Is(err, game.ErrInvalidVote),
		errors.Is(err, game.ErrInvalidCell):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, game.ErrNotHost),
		errors.Is(err, game.ErrClaimantCannotVote),
		errors.Is(err, game.ErrUnknownPlayer):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrNoWinningLine):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.Log.WithError(err).Error("room operation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
