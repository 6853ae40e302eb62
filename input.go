package stage

import "github.com/hajimehoshi/ebiten/v2"

// PointerSample is the state of one pointer for one frame, in screen
// coordinates.
type PointerSample struct {
	ID      int // 0 = mouse, 1-9 = touch
	X, Y    float64
	Pressed bool
	Button  MouseButton
}

// InputSource supplies raw input once per frame.
type InputSource interface {
	// Pointers appends this frame's pointer samples to buf.
	Pointers(buf []PointerSample) []PointerSample
	Modifiers() KeyModifiers
	// Wheel returns this frame's scroll delta and the cursor position.
	Wheel() (x, y, dx, dy float64)
}

// EbitenInput reads mouse, wheel, keyboard modifiers and touches from
// Ebitengine.
type EbitenInput struct {
	touchIDs  []ebiten.TouchID
	touchMap  [maxPointers]ebiten.TouchID
	touchUsed [maxPointers]bool
	touchLast [maxPointers]Vec2
}

// NewEbitenInput creates an input source backed by Ebitengine.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{}
}

// Modifiers reads the current keyboard modifier state.
func (in *EbitenInput) Modifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// Wheel implements InputSource.
func (in *EbitenInput) Wheel() (x, y, dx, dy float64) {
	mx, my := ebiten.CursorPosition()
	dx, dy = ebiten.Wheel()
	return float64(mx), float64(my), dx, dy
}

// Pointers implements InputSource. The mouse is pointer 0; touches are
// mapped to slots 1-9 and released at their last position when they end.
func (in *EbitenInput) Pointers(buf []PointerSample) []PointerSample {
	mx, my := ebiten.CursorPosition()
	mouse := PointerSample{ID: 0, X: float64(mx), Y: float64(my)}
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		mouse.Pressed = true
		switch {
		case left:
			mouse.Button = MouseButtonLeft
		case right:
			mouse.Button = MouseButtonRight
		default:
			mouse.Button = MouseButtonMiddle
		}
	}
	buf = append(buf, mouse)

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	var active [maxPointers]bool
	for _, tid := range in.touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		in.touchLast[slot] = Vec2{float64(tx), float64(ty)}
		buf = append(buf, PointerSample{ID: slot, X: float64(tx), Y: float64(ty), Pressed: true})
	}
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !active[i] {
			last := in.touchLast[i]
			buf = append(buf, PointerSample{ID: i, X: last.X, Y: last.Y})
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
	return buf
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *EbitenInput) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}
