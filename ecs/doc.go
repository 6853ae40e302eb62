// Package ecs provides ECS adapters for stage's event stream.
//
// The primary adapter is [NewDonburiSink], which bridges editor and play
// events (object pointer down, transform end, selection change, scene
// switch) into a [Donburi] world as typed events. Subscribe to
// [StageEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	editor.SetEventSink(sink)
//	mux.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
