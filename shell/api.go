package shell

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/twai/twai/automatic"
	"github.com/twai/twai/board"
	"github.com/twai/twai/config"
	"github.com/twai/twai/equity"
	"github.com/twai/twai/game"
	"github.com/twai/twai/move"
	"github.com/twai/twai/movegen"
)

const defaultGenPlays = 10

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string]string

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (sc *ShellController) curGame() *game.Game {
	return sc.player.Game()
}

func (sc *ShellController) showBoard() *Response {
	return msg(sc.curGame().ToDisplayText())
}

// sourceFromOptions picks the piece source for new games: a fixed cycle of
// shapes (-pieces IOT), a seeded random stream (-seed 42), or an unseeded
// one.
func sourceFromOptions(opts CmdOptions) (func() game.PieceSource, error) {
	if p, ok := opts["pieces"]; ok {
		if p == "" {
			return nil, errors.New("-pieces needs at least one shape")
		}
		shapes := make([]board.Shape, 0, len(p))
		for _, r := range p {
			s, err := board.ParseShape(string(r))
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, s)
		}
		return func() game.PieceSource { return game.NewSequenceSource(shapes...) }, nil
	}
	if s, ok := opts["seed"]; ok {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad seed: %w", err)
		}
		var seed [32]byte
		binary.LittleEndian.PutUint64(seed[:], n)
		return func() game.PieceSource { return game.NewRandomSource(&seed) }, nil
	}
	return func() game.PieceSource { return game.NewRandomSource(nil) }, nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	src, err := sourceFromOptions(cmd.options)
	if err != nil {
		return nil, err
	}
	sc.newSource = src
	sc.player.Reset()
	sc.curGenPlays = nil
	return sc.showBoard(), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return sc.showBoard(), nil
}

func moveTableHeader() string {
	return "     Placement                 Cost\n"
}

func MoveTableRow(idx int, m *move.Move) string {
	return fmt.Sprintf("%3d: %-24s%9.3f", idx+1, m.ShortDescription(), m.Cost())
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	n := defaultGenPlays
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, errors.New("gen needs a positive number of placements")
		}
	}
	plays := sc.player.Selector().RankedMoves(sc.curGame())
	sc.curGenPlays = plays[:min(n, len(plays))]

	var b strings.Builder
	b.WriteString(moveTableHeader())
	for i, p := range sc.curGenPlays {
		b.WriteString(MoveTableRow(i, p))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d placements in total", len(plays))
	return msg(b.String()), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	m := sc.player.Selector().BestMove(sc.curGame())
	if m == nil {
		return msg("no legal move"), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  cost %.3f", m.ShortDescription(), m.Cost())
	if m.ViaHold() {
		b.WriteString("  (via hold)")
	}
	fmt.Fprintf(&b, "\nactions: %v\ncodes: %v", m.Actions(), m.Actions().Ints())
	return msg(b.String()), nil
}

// play applies actions by name (play r r cw d) or walks the piece to a
// listed placement (play #2).
func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <actions...> | play #n")
	}
	var seq move.Sequence
	if len(cmd.args) == 1 && strings.HasPrefix(cmd.args[0], "#") {
		n, err := strconv.Atoi(cmd.args[0][1:])
		if err != nil {
			return nil, err
		}
		if n < 1 || n > len(sc.curGenPlays) {
			return nil, errors.New("play outside range; use `gen` first")
		}
		g := sc.curGame()
		target := sc.curGenPlays[n-1]
		if target.Shape() != g.Active() {
			return nil, errors.New("that placement is for a different piece")
		}
		var ok bool
		seq, ok = movegen.FindPath(g.Grid(), g.Active(), g.ActivePose(), target.Pose())
		if !ok {
			return nil, errors.New("that placement cannot be reached")
		}
	} else {
		var err error
		seq, err = move.ParseSequence(cmd.args)
		if err != nil {
			return nil, err
		}
	}
	for _, a := range seq {
		sc.player.Play(a)
	}
	return sc.showBoard(), nil
}

func (sc *ShellController) lock(cmd *shellcmd) (*Response, error) {
	sc.curGenPlays = nil
	if !sc.player.Lock() {
		return msg(sc.curGame().ToDisplayText() + "\ngame over"), nil
	}
	return sc.showBoard(), nil
}

func (sc *ShellController) step(cmd *shellcmd) (*Response, error) {
	n := 1
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	sc.curGenPlays = nil
	var b strings.Builder
	for i := 0; i < n; i++ {
		seq, err := sc.player.Step()
		if errors.Is(err, game.ErrGameOver) {
			b.WriteString("game over\n")
			break
		}
		if n <= 10 {
			fmt.Fprintf(&b, "%v\n", seq)
		}
	}
	b.WriteString(sc.curGame().ToDisplayText())
	return msg(b.String()), nil
}

// trace shows the board after every action of a sequence, without
// changing the game. With no actions it traces the best move.
func (sc *ShellController) trace(cmd *shellcmd) (*Response, error) {
	var seq move.Sequence
	if len(cmd.args) == 0 {
		var ok bool
		seq, ok = sc.player.NextBestMoves()
		if !ok {
			return msg("no legal move"), nil
		}
	} else {
		var err error
		seq, err = move.ParseSequence(cmd.args)
		if err != nil {
			return nil, err
		}
	}
	var b strings.Builder
	for i, g := range sc.curGame().ExecuteOnCopies(seq) {
		if i == 0 {
			fmt.Fprintf(&b, "start\n%s\n", g.ToDisplayText())
			continue
		}
		fmt.Fprintf(&b, "step %d: %v\n%s\n", i, seq[i-1], g.ToDisplayText())
	}
	return msg(strings.TrimRight(b.String(), "\n")), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	opts := CmdOptions(cmd.options)
	cfg := config.DefaultConfig()
	for _, k := range sc.config.AllKeys() {
		cfg.Set(k, sc.config.Get(k))
	}
	for opt, key := range map[string]string{
		"games":     config.ConfigGames,
		"threads":   config.ConfigThreads,
		"maxpieces": config.ConfigMaxPieces,
	} {
		v, err := opts.IntDefault(opt, cfg.GetInt(key))
		if err != nil {
			return nil, err
		}
		cfg.Set(key, v)
	}
	if f, ok := opts["logfile"]; ok {
		cfg.Set(config.ConfigLogFile, f)
	}
	if f, ok := opts["seedfile"]; ok {
		cfg.Set(config.ConfigSeedFile, f)
	}
	summary, err := automatic.RunWeights(context.Background(), &cfg, sc.player.Weights())
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(summary.String(), "\n")), nil
}

func (sc *ShellController) weights(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var b strings.Builder
		if err := sc.player.Weights().WriteYAML(&b); err != nil {
			return nil, err
		}
		return msg(strings.TrimRight(b.String(), "\n")), nil
	}
	switch cmd.args[0] {
	case "reset":
		sc.player.SetWeights(equity.DefaultWeights())
		return msg("weights reset to defaults"), nil
	case "load", "save":
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: weights " + cmd.args[0] + " <file>")
		}
	default:
		return nil, errors.New("usage: weights [load <file> | save <file> | reset]")
	}

	path := cmd.args[1]
	if cmd.args[0] == "load" {
		w, err := equity.LoadWeights(path)
		if err != nil {
			return nil, err
		}
		sc.player.SetWeights(w)
		return msg("loaded weights from " + path), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := sc.player.Weights().WriteYAML(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return msg("saved weights to " + path), nil
}

func (sc *ShellController) settingsText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-26s%v\n", config.ConfigLookahead, sc.player.Selector().Lookahead())
	fmt.Fprintf(&b, "%-26s%v\n", config.ConfigScoringThreads, sc.config.GetInt(config.ConfigScoringThreads))
	w := sc.player.Weights()
	for _, name := range equity.WeightNames {
		v, _ := w.Get(name)
		fmt.Fprintf(&b, "%-26s%v\n", name, v)
	}
	return strings.TrimRight(b.String(), "\n")
}

// set changes lookahead, scoring threads, or a single weight.
func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <name> <value>")
	}
	opt, val := cmd.args[0], cmd.args[1]
	switch opt {
	case config.ConfigLookahead:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		sc.player.SetLookahead(b)
	case config.ConfigScoringThreads, "threads":
		t, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		sc.config.Set(config.ConfigScoringThreads, t)
		sc.player.Selector().SetThreads(t)
	default:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, err
		}
		w := sc.player.Weights()
		if err := w.Set(opt, f); err != nil {
			return nil, err
		}
		sc.player.SetWeights(w)
	}
	return msg("set " + opt + " to " + val), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}
