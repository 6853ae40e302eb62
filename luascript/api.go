package luascript

import (
	"strings"

	"github.com/phanxgames/stage"
	lua "github.com/yuin/gopher-lua"
)

// install binds the sprite, scene and log globals.
func install(L *lua.LState, rt *stage.Runtime, sprite *stage.Sprite) {
	L.SetGlobal("sprite", L.SetFuncs(L.NewTable(), spriteFuncs(sprite)))
	L.SetGlobal("scene", L.SetFuncs(L.NewTable(), sceneFuncs(rt)))
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		rt.Printf("%s", strings.Join(parts, " "))
		return 0
	}))
}

func spriteFuncs(s *stage.Sprite) map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"id": func(L *lua.LState) int {
			L.Push(lua.LString(s.ID()))
			return 1
		},
		"x": func(L *lua.LState) int {
			x, _ := s.Position()
			L.Push(lua.LNumber(x))
			return 1
		},
		"y": func(L *lua.LState) int {
			_, y := s.Position()
			L.Push(lua.LNumber(y))
			return 1
		},
		"position": func(L *lua.LState) int {
			x, y := s.Position()
			L.Push(lua.LNumber(x))
			L.Push(lua.LNumber(y))
			return 2
		},
		"set_position": func(L *lua.LState) int {
			s.SetPosition(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
			return 0
		},
		"move": func(L *lua.LState) int {
			x, y := s.Position()
			s.SetPosition(x+float64(L.CheckNumber(1)), y+float64(L.CheckNumber(2)))
			return 0
		},
		"rotation": func(L *lua.LState) int {
			L.Push(lua.LNumber(s.Rotation()))
			return 1
		},
		"set_rotation": func(L *lua.LState) int {
			s.SetRotation(float64(L.CheckNumber(1)))
			return 0
		},
		"velocity": func(L *lua.LState) int {
			vx, vy := s.Velocity()
			L.Push(lua.LNumber(vx))
			L.Push(lua.LNumber(vy))
			return 2
		},
		"set_velocity": func(L *lua.LState) int {
			s.SetVelocity(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
			return 0
		},
		// Costume indices are 1-based on the Lua side.
		"costume": func(L *lua.LState) int {
			L.Push(lua.LNumber(s.Costume() + 1))
			return 1
		},
		"set_costume": func(L *lua.LState) int {
			s.SetCostume(L.CheckInt(1) - 1)
			return 0
		},
		"visible": func(L *lua.LState) int {
			L.Push(lua.LBool(s.Visible()))
			return 1
		},
		"show": func(L *lua.LState) int {
			s.SetVisible(true)
			return 0
		},
		"hide": func(L *lua.LState) int {
			s.SetVisible(false)
			return 0
		},
	}
}

func sceneFuncs(rt *stage.Runtime) map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"switch": func(L *lua.LState) int {
			rt.SwitchScene(L.CheckString(1), L.OptBool(2, false))
			return 0
		},
		"name": func(L *lua.LState) int {
			L.Push(lua.LString(rt.SceneName()))
			return 1
		},
		"time": func(L *lua.LState) int {
			L.Push(lua.LNumber(rt.Elapsed()))
			return 1
		},
	}
}
