package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/twai/twai/board"
	"github.com/twai/twai/config"
	"github.com/twai/twai/equity"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"auto -logfile /path/to/log.csv",
			&shellcmd{"auto", nil, map[string]string{"logfile": "/path/to/log.csv"}},
			nil},
		{"play r r cw",
			&shellcmd{"play", []string{"r", "r", "cw"}, map[string]string{}},
			nil},
		{"set hole_count -2.5",
			&shellcmd{"set", []string{"hole_count", "-2.5"}, map[string]string{}},
			nil},
		{"auto -games 10 -threads 4 ",
			&shellcmd{"auto", nil, map[string]string{"games": "10", "threads": "4"}},
			nil},
		{"new 'quoted arg' -pieces IOT",
			&shellcmd{"new", []string{"quoted arg"}, map[string]string{"pieces": "IOT"}},
			nil},
		{"auto -games",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testShell(t *testing.T) (*ShellController, *bytes.Buffer) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigLogFile, filepath.Join(t.TempDir(), "games.csv"))
	var buf bytes.Buffer
	sc, err := newShellController(&cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	return sc, &buf
}

func TestPlayMovesPiece(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	is.True(sc.Execute("new -pieces TI"))
	g := sc.curGame()
	is.Equal(g.Active(), board.ShapeI)
	is.Equal(g.Held(), board.ShapeT)
	start := g.ActivePose()

	sc.Execute("play r r r")
	is.Equal(sc.curGame().ActivePose(), start.Translate(0, 3))

	out.Reset()
	sc.Execute("play x")
	is.True(strings.HasPrefix(out.String(), "Error: "))
	is.Equal(sc.curGame().ActivePose(), start.Translate(0, 3))

	sc.Execute("play hold")
	is.Equal(sc.curGame().Active(), board.ShapeT)
	is.Equal(sc.curGame().Held(), board.ShapeI)
}

func TestGenAndPlayNumbered(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	sc.Execute("new -pieces O")
	out.Reset()
	sc.Execute("gen 3")
	is.Equal(len(sc.curGenPlays), 3)
	is.True(strings.Contains(out.String(), "placements in total"))
	target := sc.curGenPlays[0].Pose()

	sc.Execute("play #1")
	is.Equal(sc.curGame().ActivePose(), target)
	sc.Execute("lock")
	is.Equal(sc.curGame().PiecesPlaced(), 1)

	out.Reset()
	sc.Execute("play #1")
	is.True(strings.Contains(out.String(), "use `gen` first"))
}

func TestGenRejectsBadCounts(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	sc.Execute("new -pieces TI")
	for _, line := range []string{"gen -1", "gen 0"} {
		out.Reset()
		is.True(sc.Execute(line))
		is.True(strings.HasPrefix(out.String(), "Error: gen needs a positive number"))
		is.Equal(len(sc.curGenPlays), 0)
	}
}

func TestBestAndStep(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	sc.Execute("new -seed 11")
	out.Reset()
	sc.Execute("best")
	is.True(strings.Contains(out.String(), "actions: "))
	is.Equal(sc.curGame().PiecesPlaced(), 0)

	sc.Execute("step 30")
	g := sc.curGame()
	is.Equal(g.PiecesPlaced(), 30)
	is.Equal(4*30, 10*g.Score()+g.Grid().Filled())

	// the same seed replays the same game
	sc.Execute("new -seed 11")
	sc.Execute("step 30")
	is.Equal(sc.curGame().Grid().Equals(g.Grid()), true)
}

func TestTraceLeavesGameAlone(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	sc.Execute("new -pieces I")
	start := sc.curGame().ActivePose()
	out.Reset()
	sc.Execute("trace r d")
	is.True(strings.Contains(out.String(), "start\n"))
	is.True(strings.Contains(out.String(), "step 1: r\n"))
	is.True(strings.Contains(out.String(), "step 2: d\n"))
	is.Equal(sc.curGame().ActivePose(), start)
}

func TestSetCommands(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	sc.Execute("set hole-count 99")
	is.Equal(sc.player.Weights().HoleCount, 99.0)
	sc.Execute("set lookahead false")
	is.True(!sc.player.Selector().Lookahead())
	// lookahead survives a change of weights
	sc.Execute("set bumpiness 1")
	is.True(!sc.player.Selector().Lookahead())
	sc.Execute("set scoring-threads 3")
	is.Equal(sc.config.GetInt(config.ConfigScoringThreads), 3)

	out.Reset()
	sc.Execute("set nonsense 1")
	is.True(strings.Contains(out.String(), equity.ErrUnknownWeight.Error()))

	out.Reset()
	sc.Execute("set")
	is.True(strings.Contains(out.String(), "hole_count"))
	is.True(strings.Contains(out.String(), "99"))
}

func TestWeightsSaveLoad(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	path := filepath.Join(t.TempDir(), "w.yaml")
	sc.Execute("set bumpiness 3.5")
	sc.Execute("weights save " + path)
	sc.Execute("weights reset")
	is.Equal(sc.player.Weights(), equity.DefaultWeights())
	sc.Execute("weights load " + path)
	is.Equal(sc.player.Weights().Bumpiness, 3.5)
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	path := filepath.Join(t.TempDir(), "play.lua")
	err := os.WriteFile(path, []byte(`
twai_new("-pieces IOTSZJL")
while twai_pieces() < 8 and not twai_over() do
	twai_step()
end
assert(twai_score() >= 0)
twai_set("lookahead false")
`), 0o644)
	is.NoErr(err)
	sc.Execute("script " + path)
	is.Equal(sc.curGame().PiecesPlaced(), 8)
	is.True(!sc.player.Selector().Lookahead())
}

func TestAuto(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	logfile := filepath.Join(t.TempDir(), "auto.csv")
	sc.Execute("auto -games 2 -threads 2 -maxpieces 5 -logfile " + logfile)
	is.True(strings.Contains(out.String(), "Games played: 2"))
	_, err := os.Stat(logfile)
	is.NoErr(err)
}

func TestExecuteAndHelp(t *testing.T) {
	is := is.New(t)
	sc, out := testShell(t)
	is.True(sc.Execute(""))
	is.True(!sc.Execute("exit"))

	sc.Execute("frobnicate")
	is.True(strings.Contains(out.String(), `command "frobnicate" not recognized`))

	out.Reset()
	sc.Execute("help")
	is.True(strings.HasPrefix(out.String(), "Commands:"))
	out.Reset()
	sc.Execute("help play")
	is.True(strings.Contains(out.String(), "shift right"))
	out.Reset()
	sc.Execute("help nope")
	is.True(strings.Contains(out.String(), "There is no help text"))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc, _ := testShell(t)
	c := NewShellCompleter(sc)

	m, n := c.Do([]rune("ste"), 3)
	is.Equal(m, [][]rune{[]rune("p")})
	is.Equal(n, 3)

	m, _ = c.Do([]rune("new -s"), 6)
	is.Equal(m, [][]rune{[]rune("eed")})

	m, _ = c.Do([]rune("set lookahead "), 14)
	is.Equal(m, [][]rune{[]rune("true"), []rune("false")})
}
