package stage

import "github.com/hajimehoshi/ebiten/v2"

// Player runs a Multiplexer as an ebiten.Game. The game frame is drawn at
// canvas resolution.
type Player struct {
	mux    *Multiplexer
	camera *Camera
	canvas Canvas
	state  *EditorState

	showFPS bool
}

// NewPlayer creates a player over mux. When state is non-nil its active
// scene follows the multiplexer's active runtime.
func NewPlayer(mux *Multiplexer, state *EditorState) *Player {
	canvas := mux.cfg.Canvas()
	p := &Player{
		mux:    mux,
		canvas: canvas,
		camera: NewCamera(canvas.Bounds(), canvas.Width/2, canvas.Height/2),
		state:  state,
	}
	if state != nil {
		mux.OnActiveChange(func(rt *Runtime) {
			state.SetActiveScene(rt.SceneID())
			state.SetViewMode(ViewGame)
		})
		if rt := mux.Active(); rt != nil {
			state.SetActiveScene(rt.SceneID())
		}
	}
	return p
}

// ShowFPS toggles the FPS overlay.
func (p *Player) ShowFPS(on bool) { p.showFPS = on }

// Update implements ebiten.Game.
func (p *Player) Update() error {
	p.mux.Update(p.mux.cfg.PhysicsStep)
	return nil
}

// Draw implements ebiten.Game.
func (p *Player) Draw(screen *ebiten.Image) {
	rt := p.mux.Active()
	if rt == nil || rt.Display() == nil {
		return
	}
	r := renderer{camera: p.camera}
	r.drawCanvas(screen, p.canvas, rt.Background(), false)
	r.drawNodes(screen, rt.Display().Nodes())
	if p.showFPS {
		drawFPS(screen)
	}
}

// Layout implements ebiten.Game.
func (p *Player) Layout(int, int) (int, int) {
	return int(p.canvas.Width), int(p.canvas.Height)
}
