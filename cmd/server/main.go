// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"lyricbingo/internal/archive"
	"lyricbingo/internal/deck"
	"lyricbingo/internal/game"
	"lyricbingo/internal/handlers"
	"lyricbingo/internal/store"
)

const releaseVersion = "0.3.1"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	if err := newCmd(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *Config) error {
	logger := logrus.New()
	if cfg.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var deckOpts []deck.Option
	if cfg.autoMarkCenter {
		deckOpts = append(deckOpts, deck.WithAutoMarkCenter())
	}
	d := deck.Default(deckOpts...)

	var roomStore store.RoomStore
	switch cfg.storeBackend {
	case "redis":
		rdb, err := store.DialRedis(ctx, cfg.redisAddr, cfg.redisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		roomStore = store.NewRedisStore(rdb)
		logger.Infof("Using redis room store at %s", cfg.redisAddr)
	default:
		roomStore = store.NewMemoryStore()
		logger.Info("Using in-memory room store")
	}

	var engineOpts []game.EngineOption
	if cfg.postgresDSN != "" {
		arc, err := archive.Connect(ctx, cfg.postgresDSN)
		if err != nil {
			return err
		}
		defer arc.Close()
		if err := arc.EnsureSchema(ctx); err != nil {
			return err
		}
		engineOpts = append(engineOpts, game.WithRecorder(arc))
		logger.Info("Award archive enabled")
	}

	engine := game.NewEngine(roomStore, d, logger, engineOpts...)

	srv := handlers.NewServer(logger, engine, roomStore, cfg.baseURL)
	defer srv.Close()

	addr := fmt.Sprintf("%s:%d", cfg.bind, cfg.port)
	logger.Infof("Running on %s", addr)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Routes(),
	}
	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
