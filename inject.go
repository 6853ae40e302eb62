package stage

// syntheticEvent is a single injected input event in screen coordinates.
// Injected events take precedence over real input: one is consumed per
// frame and real input is skipped that frame.
type syntheticEvent struct {
	pointer PointerSample
	mods    KeyModifiers
	wheel   bool
	dx, dy  float64
}

// InjectPointer queues a raw pointer sample for pointer 0.
func (e *Editor) InjectPointer(x, y float64, pressed bool, button MouseButton, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{
		pointer: PointerSample{X: x, Y: y, Pressed: pressed, Button: button},
		mods:    mods,
	})
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next Update.
func (e *Editor) InjectPress(x, y float64) {
	e.InjectPointer(x, y, true, MouseButtonLeft, 0)
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (e *Editor) InjectMove(x, y float64) {
	e.InjectPointer(x, y, true, MouseButtonLeft, 0)
}

// InjectRelease queues a left-button release at the given screen
// coordinates.
func (e *Editor) InjectRelease(x, y float64) {
	e.InjectPointer(x, y, false, MouseButtonLeft, 0)
}

// InjectClick queues a press followed by a release at the same screen
// coordinates, with the given modifiers held. Consumes two frames.
func (e *Editor) InjectClick(x, y float64, mods KeyModifiers) {
	e.InjectPointer(x, y, true, MouseButtonLeft, mods)
	e.InjectPointer(x, y, false, MouseButtonLeft, mods)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (e *Editor) InjectDrag(fromX, fromY, toX, toY float64, frames int, button MouseButton, mods KeyModifiers) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPointer(fromX, fromY, true, button, mods)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		e.InjectPointer(x, y, true, button, mods)
	}
	e.InjectPointer(toX, toY, false, button, mods)
}

// InjectWheel queues a wheel event at screen position (x, y).
func (e *Editor) InjectWheel(x, y, dx, dy float64, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{
		pointer: PointerSample{X: x, Y: y},
		mods:    mods,
		wheel:   true,
		dx:      dx,
		dy:      dy,
	})
}

// Pending returns the number of injected events not yet consumed.
func (e *Editor) Pending() int { return len(e.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// to the gesture machine. Returns true if an event was consumed.
func (e *Editor) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	p := evt.pointer
	if evt.wheel {
		e.gestures.wheel(p.X, p.Y, evt.dx, evt.dy, evt.mods)
		return true
	}
	e.gestures.processPointer(p.ID, p.X, p.Y, p.Pressed, p.Button, evt.mods)
	return true
}
