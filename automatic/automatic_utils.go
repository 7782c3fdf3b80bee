package automatic

// Batches of self-play games, for comparing weights.

import (
	"context"
	"errors"
	"expvar"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/twai/twai/config"
	"github.com/twai/twai/equity"
)

const logHeader = "gameID,seed,lines,pieces,singles,doubles,triples,tetrises,toppedout\n"

var (
	GamesCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	GamesCounter = expvar.NewInt("twaiGamesPlayed")
	IsPlaying = expvar.NewInt("twaiIsPlaying")
}

// Run plays the configured number of games with the configured weights,
// spread over the configured number of goroutines. Game i always uses
// seed i, so a run with a saved seed file is reproducible. Finished games
// go to the CSV log file and, if one is configured, the results database.
// Cancelling ctx stops new games from starting; games in progress finish
// and are included in the summary.
func Run(ctx context.Context, cfg *config.Config) (*Summary, error) {
	w, err := equity.WeightsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return RunWeights(ctx, cfg, w)
}

// RunWeights is Run with the given weights instead of the configured ones.
func RunWeights(ctx context.Context, cfg *config.Config, w equity.Weights) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	numGames := cfg.GetInt(config.ConfigGames)
	threads := max(1, cfg.GetInt(config.ConfigThreads))

	seeds, err := seedsFor(cfg.GetString(config.ConfigSeedFile), numGames)
	if err != nil {
		return nil, err
	}

	var (
		store *ResultStore
		runID string
	)
	if path := cfg.GetString(config.ConfigResultsDB); path != "" {
		store, err = OpenResultStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		runID, err = store.StartRun(w, numGames)
		if err != nil {
			return nil, err
		}
	}

	var logfile io.WriteCloser
	if path := cfg.GetString(config.ConfigLogFile); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		logfile = f
	}

	log.Info().Int("games", numGames).Int("threads", threads).Str("run", runID).Msg("starting-games")
	GamesCounter.Set(0)

	jobs := make(chan int, 100)
	logChan := make(chan string, 100)
	results := make([]GameResult, numGames)
	played := make([]bool, numGames)

	logDone := make(chan error, 1)
	go func() {
		logDone <- writeLog(logfile, logChan)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range seeds {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Int("queued", i).Msg("got-stop-signal-exiting-soon")
				return nil
			}
			if (i+1)%1000 == 0 {
				log.Info().Int("queued", i+1).Msg("queued-jobs")
			}
		}
		return nil
	})
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			r := NewGameRunner(logChan, cfg, w)
			for i := range jobs {
				res := r.PlayGame(seeds[i])
				results[i] = res
				played[i] = true
				GamesCounter.Add(1)
				if store != nil {
					if err := store.SaveGame(runID, res); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	err = g.Wait()
	close(logChan)
	if lerr := <-logDone; err == nil {
		err = lerr
	}
	if err != nil {
		return nil, err
	}
	log.Info().Int64("played", GamesCounter.Value()).Msg("all-games-finished")

	finished := make([]GameResult, 0, numGames)
	for i, ok := range played {
		if ok {
			finished = append(finished, results[i])
		}
	}
	s := Summarize(finished)
	s.RunID = runID
	return s, nil
}

// writeLog drains logChan into the CSV file, if there is one.
func writeLog(logfile io.WriteCloser, logChan chan string) error {
	if logfile == nil {
		for range logChan {
		}
		return nil
	}
	var werr error
	if _, err := io.WriteString(logfile, logHeader); err != nil {
		werr = err
	}
	for msg := range logChan {
		if werr != nil {
			continue
		}
		if _, err := io.WriteString(logfile, msg); err != nil {
			werr = err
		}
	}
	if err := logfile.Close(); werr == nil {
		werr = err
	}
	return werr
}
