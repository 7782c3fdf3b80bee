// Command autoplay plays a batch of games with one set of weights and
// prints how many lines they cleared.
package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/twai/twai/automatic"
	"github.com/twai/twai/config"
)

const debugAddr = "localhost:8087"

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(filepath.Dir(ex))

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	if p := cfg.GetString(config.ConfigCPUProfile); p != "" {
		f, err := os.Create(p)
		if err != nil {
			log.Fatal().Err(err).Msg("could-not-create-cpu-profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could-not-start-cpu-profile")
		}
		defer pprof.StopCPUProfile()
	}

	// progress counters at /debug/vars
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/debug/vars", expvar.Handler())
		if err := http.ListenAndServe(debugAddr, mux); err != nil {
			log.Debug().Err(err).Msg("debug-server-stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := automatic.Run(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("autoplay-failed")
		return
	}
	if err := summary.Fprint(os.Stdout); err != nil {
		log.Error().Err(err).Msg("could-not-print-summary")
	}
}
