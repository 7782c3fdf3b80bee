package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("twai_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand exposes a shell command to scripts. The Lua function takes
// the rest of the command line as an optional string and returns the
// command's output, or "ERROR: ..." on failure.
func luaCommand(name string, fn func(*ShellController, *shellcmd) (*Response, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		sc := getShell(L)
		cmd, err := extractFields(name + " " + L.OptString(1, ""))
		if err == nil {
			var r *Response
			r, err = fn(sc, cmd)
			if err == nil {
				L.Push(lua.LString(r.message))
				// return number of results pushed to stack.
				return 1
			}
		}
		log.Err(err).Msg("error-executing-" + name)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
}

// Score returns the lines cleared so far.
func Score(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LNumber(sc.curGame().Score()))
	return 1
}

// Pieces returns the number of pieces locked so far.
func Pieces(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LNumber(sc.curGame().PiecesPlaced()))
	return 1
}

func Over(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LBool(sc.curGame().Over()))
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("twai_shell", lsc)
	L.SetGlobal("twai_new", L.NewFunction(luaCommand("new", (*ShellController).newGame)))
	L.SetGlobal("twai_show", L.NewFunction(luaCommand("show", (*ShellController).show)))
	L.SetGlobal("twai_gen", L.NewFunction(luaCommand("gen", (*ShellController).generate)))
	L.SetGlobal("twai_best", L.NewFunction(luaCommand("best", (*ShellController).best)))
	L.SetGlobal("twai_play", L.NewFunction(luaCommand("play", (*ShellController).play)))
	L.SetGlobal("twai_lock", L.NewFunction(luaCommand("lock", (*ShellController).lock)))
	L.SetGlobal("twai_step", L.NewFunction(luaCommand("step", (*ShellController).step)))
	L.SetGlobal("twai_set", L.NewFunction(luaCommand("set", (*ShellController).set)))
	L.SetGlobal("twai_weights", L.NewFunction(luaCommand("weights", (*ShellController).weights)))
	L.SetGlobal("twai_score", L.NewFunction(Score))
	L.SetGlobal("twai_pieces", L.NewFunction(Pieces))
	L.SetGlobal("twai_over", L.NewFunction(Over))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg(sc.curGame().ToDisplayText()), nil
}
