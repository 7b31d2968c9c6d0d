// internal/handlers/api_server.go
package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"lyricbingo/internal/game"
	"lyricbingo/internal/metrics"
	"lyricbingo/internal/middleware"
	"lyricbingo/internal/security"
	"lyricbingo/internal/store"
)

// Server bundles the engine, the room store (for reads and subscriptions),
// and the transport-level plumbing. It carries no game state.
type Server struct {
	Log     *logrus.Logger
	Engine  *game.Engine
	Store   store.RoomStore
	BaseURL string // external base URL, used for join links in QR codes

	createLimiter *security.Limiter
}

// NewServer wires a Server. baseURL should be the externally visible origin
// (scheme://host[:port]) so QR join links resolve for phones on the same
// network.
func NewServer(log *logrus.Logger, engine *game.Engine, st store.RoomStore, baseURL string) *Server {
	return &Server{
		Log:     log,
		Engine:  engine,
		Store:   st,
		BaseURL: baseURL,
		// Room creation is the only unauthenticated write that allocates
		// resources, so it gets a per-address budget.
		createLimiter: security.NewLimiter(rate.Limit(0.5), 3),
	}
}

// Routes returns the HTTP mux with all endpoints registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	logged := middleware.LogMiddleware(s.Log)

	mux.Handle("POST /rooms", logged(http.HandlerFunc(s.CreateRoomHandler)))
	mux.Handle("POST /rooms/join", logged(http.HandlerFunc(s.JoinRoomHandler)))
	mux.Handle("GET /rooms/{code}", logged(http.HandlerFunc(s.GetRoomHandler)))
	mux.Handle("GET /rooms/{code}/qr", logged(http.HandlerFunc(s.RoomQRHandler)))

	mux.Handle("GET /rooms/ws/{code}", http.HandlerFunc(s.RoomWSHandler))

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

// Close releases transport-level resources.
func (s *Server) Close() {
	s.createLimiter.Close()
}
