package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/twai/twai/config"
	"github.com/twai/twai/equity"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-pieces", "-seed"},
	},
	"auto": {
		Options: []string{"-games", "-threads", "-maxpieces", "-logfile", "-seedfile"},
	},
	"play": {
		Args: []string{"cw", "ccw", "r", "l", "d", "hold"},
	},
	"trace": {
		Args: []string{"cw", "ccw", "r", "l", "d", "hold"},
	},
	"weights": {
		Args: []string{"load", "save", "reset"},
	},
	"set": {
		Args: append([]string{config.ConfigLookahead, config.ConfigScoringThreads}, equity.WeightNames...),
	},
	"help": {
		Args: []string{"new", "play", "gen", "auto", "set", "script"},
	},
}

var commandNames = []string{
	"help", "new", "show", "gen", "best", "play", "lock", "step", "trace",
	"auto", "weights", "set", "script", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}
		if cmdName == "set" && lastCompleteField == config.ConfigLookahead {
			completions = boolValues
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
