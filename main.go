// main.go
//
// Command-line entry point for two-player network Stratego.
//
// Usage:
//   stratego host                  host a game and print the join password
//   stratego join <password>       join a host at STRATEGO_ADDR:STRATEGO_PORT
//   stratego presets               list saved and built-in layouts
//   stratego presets show <name>   print a layout
//   stratego presets save <name> [file|random]
//   stratego presets delete <name>
//
// Configuration comes from the environment (see config.go); a .env file in
// the working directory is loaded first.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jorbDehmel/OOP-final-project/internal/httpserver"
	"github.com/jorbDehmel/OOP-final-project/internal/layout"
	"github.com/jorbDehmel/OOP-final-project/internal/presets"
	"github.com/jorbDehmel/OOP-final-project/internal/store"
)

const usage = `usage:
  stratego host
  stratego join <password>
  stratego presets [show <name> | save <name> [file|random] | delete <name>]`

var errUsage = errors.New("bad usage")

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, loadConfig(), os.Args[1:])
	stop()

	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	case err != nil && !errors.Is(err, context.Canceled):
		log.Fatal().Err(err).Msg("exiting")
	}
}

func run(ctx context.Context, cfg Config, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if err := layout.Init(); err != nil {
		return fmt.Errorf("load layouts: %w", err)
	}

	var ps *presets.Store
	if cfg.PresetsDB != "off" {
		var err error
		if ps, err = presets.Open(cfg.PresetsDB); err != nil {
			log.Warn().Err(err).Str("db", cfg.PresetsDB).Msg("preset store unavailable, using built-in layouts only")
			ps = nil
		} else {
			defer ps.Close()
		}
	}

	c := newCLI(cfg, ps, store.NewMemoryStore(), os.Stdin, os.Stdout)
	switch cmd, rest := args[0], args[1:]; cmd {
	case "host":
		startStatus(ctx, cfg, c)
		return c.host(ctx)
	case "join":
		if len(rest) != 1 {
			return errUsage
		}
		startStatus(ctx, cfg, c)
		return c.join(ctx, rest[0])
	case "presets":
		return c.presetsCmd(ctx, rest)
	}
	return errUsage
}

// startStatus runs the status API in the background when STATUS_ADDR is set.
func startStatus(ctx context.Context, cfg Config, c *cli) {
	if cfg.StatusAddr == "" {
		return
	}
	auth, err := httpserver.NewAuth(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Error().Err(err).Msg("status API auth")
		return
	}
	tok, exp, err := auth.Sign("local")
	if err != nil {
		log.Error().Err(err).Msg("sign status token")
		return
	}
	srv := httpserver.New(c.matches, c.presets, auth)
	log.Info().Str("addr", cfg.StatusAddr).Time("tokenExpires", exp).Str("token", tok).Msg("status API enabled")
	go func() {
		if err := srv.Start(ctx, cfg.StatusAddr); err != nil {
			log.Error().Err(err).Msg("status API exited")
		}
	}()
}
