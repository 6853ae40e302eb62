package ecs

import (
	"github.com/phanxgames/stage"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// StageEventType is the Donburi event type for stage events.
// Subscribe to this in your ECS systems to receive selection, transform and
// scene switch events.
var StageEventType = events.NewEventType[stage.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Events are published to StageEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) stage.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event stage.Event) {
	StageEventType.Publish(s.world, event)
}
