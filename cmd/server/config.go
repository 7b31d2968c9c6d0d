// cmd/server/config.go
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	port           int
	baseURL        string
	storeBackend   string
	redisAddr      string
	redisDB        int
	postgresDSN    string
	autoMarkCenter bool
	verbose        bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.storeBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid store backend %q (must be memory or redis)", c.storeBackend)
	}
	if c.storeBackend == "redis" && c.redisAddr == "" {
		return errors.New("--redis-addr is required with --store redis")
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("LYRICBINGO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "lyricbingo",
		Short:         "Real-time lyric bingo coordinator: shared rooms, group-voted bingo claims.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: LYRICBINGO_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: LYRICBINGO_PORT)")
	fs.StringVar(&cfg.baseURL, "base-url", "http://localhost:8080", "externally visible origin for join links (env: LYRICBINGO_BASE_URL)")
	fs.StringVar(&cfg.storeBackend, "store", "memory", "room store backend: memory or redis (env: LYRICBINGO_STORE)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "localhost:6379", "redis address for the redis store backend (env: LYRICBINGO_REDIS_ADDR)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database index (env: LYRICBINGO_REDIS_DB)")
	fs.StringVar(&cfg.postgresDSN, "postgres-dsn", "", "postgres DSN for the award archive; empty disables archiving (env: LYRICBINGO_POSTGRES_DSN)")
	fs.BoolVar(&cfg.autoMarkCenter, "auto-mark-center", false, "deal cards with the center cell pre-marked (env: LYRICBINGO_AUTO_MARK_CENTER)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: LYRICBINGO_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("lyricbingo v{{.Version}}\n")

	return cmd
}
