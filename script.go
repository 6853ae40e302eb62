package stage

import "fmt"

// ScriptFunc is a compiled object script. It is invoked once per object
// when its scene runtime starts, and registers whatever behaviour it needs
// through the runtime and sprite handles.
type ScriptFunc func(rt *Runtime, objectID string, sprite *Sprite) error

// ScriptCompiler turns authored scripts into ScriptFuncs.
type ScriptCompiler interface {
	Compile(src ScriptSource) (ScriptFunc, error)
}

// ScriptTable is a ScriptCompiler over Go functions: the script's Code is
// the key of the function to run. It is used for built-in behaviours and in
// tests.
type ScriptTable map[string]ScriptFunc

// Compile implements ScriptCompiler.
func (t ScriptTable) Compile(src ScriptSource) (ScriptFunc, error) {
	fn, ok := t[src.Code]
	if !ok {
		return nil, fmt.Errorf("script %q not registered", src.Code)
	}
	return fn, nil
}

// runScript invokes fn, turning a panic into an error.
func runScript(fn ScriptFunc, rt *Runtime, objectID string, sprite *Sprite) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(rt, objectID, sprite)
}
