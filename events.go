package stage

// EventType identifies a kind of stage event.
type EventType uint8

const (
	EventObjectPointerDown EventType = iota // pointer pressed on an object
	EventTransformEnd                       // a drag or gizmo session committed
	EventSelectionChange                    // the selection changed
	EventSceneSwitch                        // the active runtime changed
)

// EventSink is the interface for optional external event consumers such as
// an ECS world. When set, every stage event is forwarded to it.
type EventSink interface {
	EmitEvent(event Event)
}

// Event is the flattened form of every stage event, as delivered to an
// EventSink.
type Event struct {
	Type      EventType
	SceneID   string
	ObjectID  string
	ObjectIDs []string
	X, Y      float64 // author space
	Button    MouseButton
	Modifiers KeyModifiers
	Session   SessionKind
}

// ObjectPointerEvent is fired when a pointer is pressed on an object.
type ObjectPointerEvent struct {
	SceneID   string
	ObjectID  string
	X, Y      float64 // author space
	PointerID int
	Button    MouseButton
	Modifiers KeyModifiers
}

// TransformCommit is the final transform of one object at the end of a
// session. Scale and rotation are set only when the session changed them.
type TransformCommit struct {
	ObjectID string
	X, Y     float64 // author space
	ScaleX   *float64
	ScaleY   *float64
	Rotation *float64
}

// patch converts the commit into a store update.
func (c TransformCommit) patch() ObjectPatch {
	x, y := c.X, c.Y
	return ObjectPatch{X: &x, Y: &y, ScaleX: c.ScaleX, ScaleY: c.ScaleY, Rotation: c.Rotation}
}

// TransformEndEvent is fired after a translate, scale or rotate session
// commits its results.
type TransformEndEvent struct {
	SceneID string
	Session SessionKind
	Commits []TransformCommit
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

type handlerEntry[T any] struct {
	id uint32
	fn func(T)
}

// handlerList is an ordered registry of callbacks of one event type.
type handlerList[T any] struct {
	entries []handlerEntry[T]
	nextID  uint32
}

func (l *handlerList[T]) add(fn func(T)) CallbackHandle {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, handlerEntry[T]{id: id, fn: fn})
	return CallbackHandle{remove: func() { l.removeID(id) }}
}

func (l *handlerList[T]) removeID(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id {
			copy(l.entries[i:], l.entries[i+1:])
			l.entries[len(l.entries)-1] = handlerEntry[T]{}
			l.entries = l.entries[:len(l.entries)-1]
			return
		}
	}
}

func (l *handlerList[T]) fire(v T) {
	for _, h := range l.entries {
		h.fn(v)
	}
}
