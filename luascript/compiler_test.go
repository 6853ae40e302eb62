package luascript

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/phanxgames/stage"
)

func scriptedProject(main, other string) stage.Project {
	obj := func(id, code string) *stage.GameObject {
		o := &stage.GameObject{
			ID:        id,
			Name:      id,
			Transform: stage.Transform{ScaleX: 1, ScaleY: 1},
			Visible:   true,
			Costumes:  []stage.Costume{{ID: "a", Width: 10, Height: 10}, {ID: "b", Width: 20, Height: 20}},
		}
		if code != "" {
			o.Script = &stage.ScriptSource{Language: "lua", Code: code}
		}
		return o
	}
	return stage.Project{Scenes: []*stage.Scene{
		{ID: "s1", Name: "main", Objects: []*stage.GameObject{obj("hero", main)}},
		{ID: "s2", Name: "other", Objects: []*stage.GameObject{obj("npc", other)}},
	}}
}

func newMux(t *testing.T, p stage.Project) (*stage.Multiplexer, *bytes.Buffer) {
	t.Helper()
	var log bytes.Buffer
	mux := stage.NewMultiplexer(stage.NewMemoryStore(p), NewCompiler(), stage.DefaultConfig())
	mux.SetLogOutput(&log)
	if err := mux.Start("s1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return mux, &log
}

func heroPosition(t *testing.T, mux *stage.Multiplexer) (float64, float64) {
	t.Helper()
	s, ok := mux.Active().Sprite("hero")
	if !ok {
		t.Fatal("hero sprite missing")
	}
	return s.Position()
}

func TestCompileRejectsOtherLanguages(t *testing.T) {
	_, err := NewCompiler().Compile(stage.ScriptSource{Language: "python", Code: "pass"})
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("err = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestCompileSyntaxError(t *testing.T) {
	if _, err := NewCompiler().Compile(stage.ScriptSource{Code: "sprite.set_position("}); err == nil {
		t.Error("expected a parse error")
	}
}

func TestCompileCachesPrototype(t *testing.T) {
	c := NewCompiler()
	src := stage.ScriptSource{Code: "x = 1"}
	if _, err := c.Compile(src); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Compile(src); err != nil {
		t.Fatal(err)
	}
	if len(c.protos) != 1 {
		t.Errorf("protos = %d, want 1", len(c.protos))
	}
}

func TestScriptRunsAtStart(t *testing.T) {
	mux, _ := newMux(t, scriptedProject("sprite.set_position(30, -40)", ""))
	x, y := heroPosition(t, mux)
	if x != 30 || y != -40 {
		t.Errorf("position = (%v, %v), want (30, -40)", x, y)
	}
}

func TestOnTickMovesSprite(t *testing.T) {
	mux, _ := newMux(t, scriptedProject(`
function on_tick(dt)
  sprite.move(5, 0)
end`, ""))
	for range 3 {
		mux.Update(1.0 / 60)
	}
	x, _ := heroPosition(t, mux)
	if x != 15 {
		t.Errorf("x = %v, want 15", x)
	}
}

func TestSpriteAccessors(t *testing.T) {
	mux, log := newMux(t, scriptedProject(`
sprite.set_rotation(45)
sprite.set_costume(2)
sprite.hide()
log("costume", sprite.costume(), "visible", sprite.visible())`, ""))
	s, _ := mux.Active().Sprite("hero")
	if r := s.Rotation(); math.Abs(r-45) > 1e-9 {
		t.Errorf("rotation = %v, want 45", r)
	}
	if c := s.Costume(); c != 1 {
		t.Errorf("costume = %d, want 1", c)
	}
	if s.Visible() {
		t.Error("sprite should be hidden")
	}
	if !strings.Contains(log.String(), "costume 2 visible false") {
		t.Errorf("log = %q", log.String())
	}
}

func TestSceneSwitch(t *testing.T) {
	mux, _ := newMux(t, scriptedProject(`
function on_tick(dt)
  scene.switch("other")
end`, ""))
	mux.Update(1.0 / 60)
	if got := mux.Active().SceneName(); got != "other" {
		t.Errorf("active = %q, want other", got)
	}
}

func TestScriptErrorIsLogged(t *testing.T) {
	mux, log := newMux(t, scriptedProject(`error("boom")`, ""))
	if !strings.Contains(log.String(), "boom") {
		t.Errorf("log = %q, want the script error", log.String())
	}
	if mux.Active().State() != stage.RuntimeRunning {
		t.Errorf("state = %v, want running", mux.Active().State())
	}
}

func TestOnTickErrorIsLogged(t *testing.T) {
	mux, log := newMux(t, scriptedProject(`
function on_tick(dt)
  error("tick failed")
end`, ""))
	mux.Update(1.0 / 60)
	if !strings.Contains(log.String(), "tick failed") {
		t.Errorf("log = %q, want the tick error", log.String())
	}
}

func TestSandboxHidesLoaders(t *testing.T) {
	mux, log := newMux(t, scriptedProject(`log(type(dofile), type(loadstring), type(math.floor))`, ""))
	_ = mux
	if !strings.Contains(log.String(), "nil nil function") {
		t.Errorf("log = %q", log.String())
	}
}
