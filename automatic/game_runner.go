// Package automatic plays games with no one at the controls: single games
// for scoring a set of weights, and batches of games across goroutines for
// comparing them.
package automatic

import (
	"encoding/base64"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/twai/twai/ai/bot"
	"github.com/twai/twai/config"
	"github.com/twai/twai/equity"
	"github.com/twai/twai/game"
)

// GamesPerIndividual is how many games Fitness averages over.
const GamesPerIndividual = 2

// GameResult is the outcome of one self-play game.
type GameResult struct {
	GameID uint64
	Seed   [32]byte
	Lines  int
	Pieces int
	// Clears counts locks by lines cleared; Clears[4] is tetrises.
	Clears [5]int
	// ToppedOut is false if the game was cut off by the piece cap.
	ToppedOut bool
}

// GameID derives a stable id from a seed, so the same seed always names
// the same game.
func GameID(seed [32]byte) uint64 {
	return xxhash.Sum64(seed[:])
}

// GameRunner plays games for one set of weights. It owns its selector and
// is not safe for concurrent use; run one per goroutine.
type GameRunner struct {
	game      *game.Game
	selector  *bot.Selector
	weights   equity.Weights
	height    int
	width     int
	maxPieces int
	logchan   chan string
}

// NewGameRunner uses the board size, lookahead and piece cap from cfg.
// Finished games are written to logchan as CSV lines if it is not nil.
func NewGameRunner(logchan chan string, cfg *config.Config, w equity.Weights) *GameRunner {
	r := &GameRunner{
		logchan:   logchan,
		height:    cfg.GetInt(config.ConfigBoardHeight),
		width:     cfg.GetInt(config.ConfigBoardWidth),
		maxPieces: cfg.GetInt(config.ConfigMaxPieces),
	}
	r.Init(w)
	r.selector.SetLookahead(cfg.GetBool(config.ConfigLookahead))
	return r
}

// Init switches the runner to a new set of weights.
func (r *GameRunner) Init(w equity.Weights) {
	lookahead := true
	if r.selector != nil {
		lookahead = r.selector.Lookahead()
	}
	r.weights = w
	r.selector = bot.NewSelector(equity.NewHeuristicCalculator(w))
	r.selector.SetLookahead(lookahead)
}

func (r *GameRunner) Weights() equity.Weights { return r.weights }

// Game returns the game most recently played.
func (r *GameRunner) Game() *game.Game { return r.game }

// playBestTurn plans, applies and locks one piece. It returns false when
// the game is over.
func (r *GameRunner) playBestTurn() bool {
	seq, _, ok := r.selector.NextBestMoves(r.game)
	if ok {
		r.game.PlaySequence(seq)
	}
	return r.game.Lock()
}

// PlayGame plays the game given by seed until the stack tops out or the
// piece cap is reached.
func (r *GameRunner) PlayGame(seed [32]byte) GameResult {
	r.game = game.NewGame(r.height, r.width, game.NewRandomSource(&seed))
	for {
		if r.maxPieces > 0 && r.game.PiecesPlaced() >= r.maxPieces {
			break
		}
		if !r.playBestTurn() {
			break
		}
	}
	res := GameResult{
		GameID:    GameID(seed),
		Seed:      seed,
		Lines:     r.game.Score(),
		Pieces:    r.game.PiecesPlaced(),
		ToppedOut: r.game.Over(),
	}
	for n := range res.Clears {
		res.Clears[n] = r.game.ClearsOf(n)
	}
	log.Debug().Uint64("game", res.GameID).Int("lines", res.Lines).
		Int("pieces", res.Pieces).Bool("topped-out", res.ToppedOut).Msg("game-finished")

	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%016x,%s,%d,%d,%d,%d,%d,%d,%t\n",
			res.GameID,
			base64.RawURLEncoding.EncodeToString(seed[:]),
			res.Lines,
			res.Pieces,
			res.Clears[1],
			res.Clears[2],
			res.Clears[3],
			res.Clears[4],
			res.ToppedOut)
	}
	return res
}

// PlayGame plays one game on the default board with lookahead on and
// returns lines cleared and pieces placed. maxPieces of 0 means no cap.
func PlayGame(w equity.Weights, seed [32]byte, maxPieces int) (lines, pieces int) {
	r := &GameRunner{
		height:    game.DefaultHeight,
		width:     game.DefaultWidth,
		maxPieces: maxPieces,
	}
	r.Init(w)
	res := r.PlayGame(seed)
	return res.Lines, res.Pieces
}

// Fitness is the mean number of lines cleared over GamesPerIndividual
// games, one per seed. It is the score a weight optimizer maximizes.
// seeds must hold at least GamesPerIndividual entries.
func Fitness(w equity.Weights, seeds [][32]byte, maxPieces int) float64 {
	total := 0
	for _, seed := range seeds[:GamesPerIndividual] {
		lines, _ := PlayGame(w, seed, maxPieces)
		total += lines
	}
	return float64(total) / GamesPerIndividual
}
