// Package luascript compiles object scripts written in Lua for the stage
// play runtime.
//
// Each script is parsed and compiled to a function prototype once. Every
// object that uses it gets its own sandboxed interpreter state in which the
// prototype runs at scene start. A script sees three globals:
//
//	sprite   the object's handle (position, rotation, velocity, costume)
//	scene    scene.switch(name, restart), scene.name(), scene.time()
//	log      writes a line to the runtime log
//
// If the script defines a global function on_tick(dt), it is called on
// every logic step while the scene is running.
package luascript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phanxgames/stage"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Language is the ScriptSource language handled by Compiler.
const Language = "lua"

// ErrUnsupportedLanguage is returned for scripts in any other language.
var ErrUnsupportedLanguage = errors.New("luascript: unsupported language")

// Compiler implements stage.ScriptCompiler for Lua. It is not safe for
// concurrent use; the play runtime calls it from the frame loop only.
type Compiler struct {
	protos map[string]*lua.FunctionProto
}

// NewCompiler creates a compiler with an empty prototype cache.
func NewCompiler() *Compiler {
	return &Compiler{protos: make(map[string]*lua.FunctionProto)}
}

// Compile parses src once and returns a function that runs it for one
// object. Identical sources share one prototype.
func (c *Compiler) Compile(src stage.ScriptSource) (stage.ScriptFunc, error) {
	if src.Language != "" && !strings.EqualFold(src.Language, Language) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, src.Language)
	}
	proto, err := c.proto(src.Code)
	if err != nil {
		return nil, err
	}
	return func(rt *stage.Runtime, objectID string, sprite *stage.Sprite) error {
		return run(proto, rt, objectID, sprite)
	}, nil
}

func (c *Compiler) proto(code string) (*lua.FunctionProto, error) {
	if p, ok := c.protos[code]; ok {
		return p, nil
	}
	chunk, err := parse.Parse(strings.NewReader(code), "script")
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	p, err := lua.Compile(chunk, "script")
	if err != nil {
		return nil, fmt.Errorf("compile script: %w", err)
	}
	c.protos[code] = p
	return p, nil
}

// run executes proto in a fresh state bound to one object. The state lives
// until the runtime is destroyed.
func run(proto *lua.FunctionProto, rt *stage.Runtime, objectID string, sprite *stage.Sprite) error {
	L := newState()
	rt.OnDestroy(L.Close)
	install(L, rt, sprite)

	L.Push(L.NewFunctionFromProto(proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run %s: %w", objectID, err)
	}

	if fn, ok := L.GetGlobal("on_tick").(*lua.LFunction); ok {
		rt.OnTick(func(dt float64) {
			err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(dt))
			if err != nil {
				rt.Printf("%s on_tick: %v", objectID, err)
			}
		})
	}
	return nil
}
