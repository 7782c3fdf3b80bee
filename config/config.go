package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug             = "debug"
	ConfigBoardWidth        = "board-width"
	ConfigBoardHeight       = "board-height"
	ConfigWeightsPath       = "weights-path"
	ConfigLookahead         = "lookahead"
	ConfigScoringThreads    = "scoring-threads"
	ConfigEvalCacheFraction = "eval-cache-fraction"
	ConfigGames             = "games"
	ConfigThreads           = "threads"
	ConfigMaxPieces         = "max-pieces"
	ConfigSeedFile          = "seed-file"
	ConfigResultsDB         = "results-db"
	ConfigLogFile           = "log-file"
	ConfigCPUProfile        = "cpu-profile"
)

// Config wraps a viper instance. Settings come, in order of precedence,
// from command-line flags, TWAI_* environment variables, and defaults.
type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a configuration with only the defaults set. It is
// mostly useful for tests.
func DefaultConfig() Config {
	c := Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigBoardWidth, 10)
	c.SetDefault(ConfigBoardHeight, 24)
	c.SetDefault(ConfigWeightsPath, "")
	c.SetDefault(ConfigLookahead, true)
	c.SetDefault(ConfigScoringThreads, 1)
	c.SetDefault(ConfigEvalCacheFraction, 0.0)
	c.SetDefault(ConfigGames, 100)
	c.SetDefault(ConfigThreads, runtime.NumCPU())
	c.SetDefault(ConfigMaxPieces, 0)
	c.SetDefault(ConfigSeedFile, "")
	c.SetDefault(ConfigResultsDB, "")
	c.SetDefault(ConfigLogFile, "/tmp/twai-games.csv")
	c.SetDefault(ConfigCPUProfile, "")
}

// Load parses args (flags of the form --key=value) and binds environment
// variables. Unknown flags are an error.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.SetEnvPrefix("twai")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	c.setDefaults()

	fs := pflag.NewFlagSet("twai", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigBoardWidth, 10, "number of columns on the board")
	fs.Int(ConfigBoardHeight, 24, "number of rows on the board")
	fs.String(ConfigWeightsPath, "", "a YAML file with heuristic weights; empty for the built-in defaults")
	fs.Bool(ConfigLookahead, true, "also consider swapping the active piece into hold")
	fs.Int(ConfigScoringThreads, 1, "goroutines used to score candidate placements")
	fs.Float64(ConfigEvalCacheFraction, 0, "fraction of system memory for the evaluation cache; 0 disables it")
	fs.Int(ConfigGames, 100, "number of games for autoplay")
	fs.Int(ConfigThreads, runtime.NumCPU(), "number of games played at once in autoplay")
	fs.Int(ConfigMaxPieces, 0, "stop a game after this many pieces; 0 for no limit")
	fs.String(ConfigSeedFile, "", "file with per-game seeds; generated when missing")
	fs.String(ConfigResultsDB, "", "sqlite database to store autoplay results in")
	fs.String(ConfigLogFile, "/tmp/twai-games.csv", "CSV log of finished autoplay games")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	return c.BindPFlags(fs)
}

// Args returns the command-line arguments left over after flags.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths resolves relative file settings against basepath,
// usually the directory of the running executable.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigWeightsPath, ConfigSeedFile, ConfigResultsDB} {
		p := c.GetString(key)
		if strings.HasPrefix(p, "./") {
			c.Set(key, filepath.Join(basepath, p))
		}
	}
}

// SanitizedSettings returns all settings for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
