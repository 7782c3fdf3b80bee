// Package shell is an interactive console for watching and steering the
// placement AI one piece at a time.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/twai/twai/ai/bot"
	"github.com/twai/twai/config"
	"github.com/twai/twai/game"
	"github.com/twai/twai/move"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errExit              = errors.New("exit requested")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	player      *bot.BotTurnPlayer
	newSource   func() game.PieceSource
	curGenPlays []*move.Move
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController creates a controller attached to the terminal.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	sc, err := newShellController(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	sc.l, err = readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtwai>\033[0m ",
		HistoryFile:     "/tmp/twai-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.out = sc.l.Stderr()
	return sc, nil
}

// newShellController creates a controller that writes to out and has no
// terminal.
func newShellController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	sc := &ShellController{
		out:    out,
		config: cfg,
		newSource: func() game.PieceSource {
			return game.NewRandomSource(nil)
		},
	}
	// The session asks for a source on every reset; go through sc so that
	// `new` can change it.
	p, err := bot.NewBotTurnPlayer(cfg, func() game.PieceSource { return sc.newSource() })
	if err != nil {
		return nil, err
	}
	sc.player = p
	return sc, nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}

	for idx := 1; idx < len(fields); idx++ {
		if isOption(fields[idx]) {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// isOption reports whether field looks like -name. Negative numbers are
// arguments.
func isOption(field string) bool {
	if len(field) < 2 || field[0] != '-' {
		return false
	}
	c := field[1]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) standardModeSwitch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "exit":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "gen":
		return sc.generate(cmd)
	case "best":
		return sc.best(cmd)
	case "play":
		return sc.play(cmd)
	case "lock":
		return sc.lock(cmd)
	case "step":
		return sc.step(cmd)
	case "trace":
		return sc.trace(cmd)
	case "auto", "autoplay":
		return sc.autoplay(cmd)
	case "weights":
		return sc.weights(cmd)
	case "set":
		return sc.set(cmd)
	case "script":
		return sc.script(cmd)
	default:
		return nil, fmt.Errorf("command %q not recognized; try `help`", cmd.cmd)
	}
}

// Execute runs a single command line and prints its result. It returns
// false if the line asked the shell to exit.
func (sc *ShellController) Execute(line string) bool {
	cmd, err := extractFields(line)
	if errors.Is(err, errNoData) {
		return true
	}
	if err != nil {
		sc.showError(err)
		return true
	}
	resp, err := sc.standardModeSwitch(cmd)
	if errors.Is(err, errExit) {
		return false
	}
	if err != nil {
		sc.showError(err)
		return true
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return true
}

// Loop reads commands until exit, EOF, or an interrupt on an empty line,
// then sends SIGINT on sig.
func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if !sc.Execute(line) {
			break
		}
	}
	log.Debug().Msg("exiting-readline-loop")
	sig <- syscall.SIGINT
}
