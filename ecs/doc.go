// Package ecs provides a [Donburi] backed entity store for trackview.
//
// Entities are donburi entries carrying [Identity], transform, property,
// component list and visibility components. Changes made through [Store]
// are published as typed events on the world and delivered to the
// subscribed trackview nodes when the events are processed.
//
// Usage:
//
//	world := donburi.NewWorld()
//	store := ecs.NewStore(world)
//	seq := trackview.NewSequence("intro", trackview.WithEntityStore(store))
//	...
//	store.ProcessEvents() // once per frame
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
