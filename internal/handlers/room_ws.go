// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"lyricbingo/internal/game"
	"lyricbingo/internal/middleware"
	"lyricbingo/internal/models"
	"lyricbingo/internal/store"
)

// roomConn is one client's presence on a room socket.
type roomConn struct {
	PlayerID string
	RoomCode string
	OutChan  chan map[string]any
	Cancel   func()
}

// Write pushes a message onto the connection's out channel without blocking.
// A full channel means the client is not draining; the message is dropped
// and the next room snapshot re-syncs it.
func (c *roomConn) Write(log *logrus.Logger, msg map[string]any) {
	select {
	case c.OutChan <- msg:
	default:
		msgType, _ := msg["type"].(string)
		log.WithFields(logrus.Fields{
			"room":   c.RoomCode,
			"player": c.PlayerID,
			"type":   msgType,
		}).Warn("out channel full, dropped message")
	}
}

func (c *roomConn) WriteError(log *logrus.Logger, msg string) {
	c.Write(log, map[string]any{"type": "error", "message": msg})
}

// actionMessage is the envelope for client actions on a room socket.
type actionMessage struct {
	Action       string `json:"action"`
	Cell         int    `json:"cell"`
	Vote         string `json:"vote"`
	CellPosition int    `json:"cellPosition"`
}

// RoomWSHandler subscribes the client to room snapshots and accepts game
// actions. Every committed change to the room is pushed as a room_state
// message; the client must treat each snapshot as the sole source of truth
// and never keep resolve-relevant state locally.
func (s *Server) RoomWSHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	playerID := r.URL.Query().Get("player")

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{"room"},
		OriginPatterns: []string{"*"}, // party game on a LAN; tighten behind a proxy
	})
	if err != nil {
		s.Log.Warnf("websocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	if c.Subprotocol() != "room" {
		c.Close(websocket.StatusPolicyViolation, "client must speak the room subprotocol")
		return
	}
	middleware.LogWebSocketConnect(s.Log, r.RemoteAddr, r.URL.Path)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := &roomConn{
		PlayerID: playerID,
		RoomCode: code,
		OutChan:  make(chan map[string]any, 16),
		Cancel:   cancel,
	}

	unsub, err := s.Store.Subscribe(ctx, code,
		func(room *models.Room) {
			conn.Write(s.Log, map[string]any{"type": "room_state", "room": room})
		},
		func(err error) {
			conn.WriteError(s.Log, "subscription error: "+err.Error())
		},
	)
	if errors.Is(err, store.ErrRoomNotFound) {
		c.Close(websocket.StatusPolicyViolation, "room does not exist")
		return
	}
	if err != nil {
		s.Log.WithError(err).Warn("room subscription failed")
		c.Close(websocket.StatusInternalError, "subscription failed")
		return
	}
	defer unsub()

	go s.roomWritePump(ctx, c, conn)
	s.roomReadPump(ctx, c, conn)

	middleware.LogWebSocketDisconnect(s.Log, r.RemoteAddr, r.URL.Path, nil)
}

// roomReadPump parses action messages and dispatches them to the engine.
// Blocks until the connection closes.
func (s *Server) roomReadPump(ctx context.Context, c *websocket.Conn, conn *roomConn) {
	for {
		typ, raw, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway &&
				!strings.Contains(err.Error(), "context canceled") {
				s.Log.WithFields(logrus.Fields{
					"room":   conn.RoomCode,
					"player": conn.PlayerID,
				}).Warnf("read error: %v", err)
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg actionMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			conn.WriteError(s.Log, "invalid JSON format")
			continue
		}
		s.handleRoomAction(ctx, conn, msg)
	}
}

// handleRoomAction runs one client action. Engine preconditions come back
// as errors here and are reported to just this client; stale-vote and
// already-resolved situations are silent no-ops by design.
func (s *Server) handleRoomAction(ctx context.Context, conn *roomConn, msg actionMessage) {
	var err error
	switch msg.Action {
	case "start_round":
		err = s.Engine.StartRound(ctx, conn.RoomCode, conn.PlayerID)
	case "return_to_lobby":
		err = s.Engine.ReturnToLobby(ctx, conn.RoomCode, conn.PlayerID)
	case "toggle_mark":
		err = s.Engine.ToggleMark(ctx, conn.RoomCode, conn.PlayerID, msg.Cell)
	case "call_bingo":
		_, err = s.Engine.CallBingo(ctx, conn.RoomCode, conn.PlayerID)
		if errors.Is(err, game.ErrNoWinningLine) {
			// Normal negative result: tell the caller, leave the room alone.
			conn.Write(s.Log, map[string]any{"type": "no_line"})
			return
		}
	case "vote":
		err = s.Engine.Vote(ctx, conn.RoomCode, conn.PlayerID, models.Vote(msg.Vote), msg.CellPosition)
		if err == nil {
			// Speculative resolve: if this was the last outstanding vote the
			// cell resolves now, otherwise the engine no-ops.
			_, err = s.Engine.Resolve(ctx, conn.RoomCode)
		}
	case "resolve":
		var res game.Resolution
		res, err = s.Engine.Resolve(ctx, conn.RoomCode)
		if err == nil {
			conn.Write(s.Log, map[string]any{"type": "resolution", "result": res.String()})
		}
	default:
		conn.WriteError(s.Log, "unknown action: "+msg.Action)
		return
	}
	if err != nil {
		conn.WriteError(s.Log, err.Error())
	}
}

// roomWritePump drains the out channel to the socket and keeps the
// connection alive with periodic pings.
func (s *Server) roomWritePump(ctx context.Context, c *websocket.Conn, conn *roomConn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-conn.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				s.Log.Warnf("failed to marshal outgoing msg for %s: %v", conn.PlayerID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
