package ecs

import (
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/phanxgames/trackview"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Identity names an entity.
type Identity struct {
	ID   uuid.UUID
	Name string
}

// PropertyData holds the animatable float properties of an entity.
type PropertyData struct {
	Values map[string]float64
}

// ComponentList describes the editor-visible components of an entity.
type ComponentList struct {
	Items []trackview.ComponentInfo
}

// VisibilityData is the visible state of an entity.
type VisibilityData struct {
	Visible bool
}

// Component types registered on the world.
var (
	IdentityComponent   = donburi.NewComponentType[Identity]()
	TransformComponent  = donburi.NewComponentType[trackview.Transform]()
	PropertiesComponent = donburi.NewComponentType[PropertyData]()
	ComponentsComponent = donburi.NewComponentType[ComponentList]()
	VisibilityComponent = donburi.NewComponentType[VisibilityData]()
)

// EntityEventType carries entity changes. Subscribe to it in ECS systems to
// observe the same events the sequences receive.
var EntityEventType = events.NewEventType[trackview.EntityEvent]()

// Store is a trackview.EntityStore over a donburi world.
type Store struct {
	world     donburi.World
	index     map[uuid.UUID]donburi.Entity
	listeners map[uuid.UUID][]*subscription
	nextComp  uint64
}

type subscription struct {
	l trackview.EntityListener
}

// NewStore creates a store bound to world.
func NewStore(world donburi.World) *Store {
	s := &Store{
		world:     world,
		index:     make(map[uuid.UUID]donburi.Entity),
		listeners: make(map[uuid.UUID][]*subscription),
	}
	EntityEventType.Subscribe(world, s.dispatch)
	return s
}

// World returns the backing world.
func (s *Store) World() donburi.World { return s.world }

// Spawn creates an entity with a transform component entry and returns its
// id.
func (s *Store) Spawn(name string, tr trackview.Transform) uuid.UUID {
	e := s.world.Create(IdentityComponent, TransformComponent, PropertiesComponent, ComponentsComponent, VisibilityComponent)
	entry := s.world.Entry(e)
	id := uuid.New()
	IdentityComponent.SetValue(entry, Identity{ID: id, Name: name})
	TransformComponent.SetValue(entry, tr)
	PropertiesComponent.SetValue(entry, PropertyData{Values: map[string]float64{}})
	s.nextComp++
	ComponentsComponent.SetValue(entry, ComponentList{Items: []trackview.ComponentInfo{{
		ID: s.nextComp, TypeName: trackview.TransformComponent, Animatable: true,
	}}})
	VisibilityComponent.SetValue(entry, VisibilityData{Visible: true})
	s.index[id] = e
	return id
}

// Destroy removes the entity and publishes a Removed event.
func (s *Store) Destroy(id uuid.UUID) {
	e, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	s.world.Remove(e)
	s.publish(id, trackview.EntityRemoved)
}

// AddComponent attaches an editor-visible component and returns its id.
// Properties are initialised to zero when missing.
func (s *Store) AddComponent(id uuid.UUID, typeName string, properties ...string) uint64 {
	entry := s.entry(id)
	if entry == nil {
		return 0
	}
	s.nextComp++
	list := ComponentsComponent.Get(entry)
	list.Items = append(list.Items, trackview.ComponentInfo{
		ID: s.nextComp, TypeName: typeName, Properties: properties, Animatable: true,
	})
	props := PropertiesComponent.Get(entry)
	for _, p := range properties {
		if _, ok := props.Values[p]; !ok {
			props.Values[p] = 0
		}
	}
	s.publish(id, trackview.EntityComponentsChanged)
	return s.nextComp
}

// RemoveComponent detaches the component with compID.
func (s *Store) RemoveComponent(id uuid.UUID, compID uint64) {
	entry := s.entry(id)
	if entry == nil {
		return
	}
	list := ComponentsComponent.Get(entry)
	n := len(list.Items)
	list.Items = slices.DeleteFunc(list.Items, func(c trackview.ComponentInfo) bool { return c.ID == compID })
	if len(list.Items) != n {
		s.publish(id, trackview.EntityComponentsChanged)
	}
}

// Move sets the transform from outside the timeline.
func (s *Store) Move(id uuid.UUID, tr trackview.Transform) {
	entry := s.entry(id)
	if entry == nil {
		return
	}
	TransformComponent.SetValue(entry, tr)
	s.publish(id, trackview.EntityTransformChanged)
}

// Select marks the entity as selected or deselected in the scene.
func (s *Store) Select(id uuid.UUID, selected bool) {
	if s.entry(id) == nil {
		return
	}
	if selected {
		s.publish(id, trackview.EntitySelected)
	} else {
		s.publish(id, trackview.EntityDeselected)
	}
}

// IDs returns the ids of all live entities.
func (s *Store) IDs() []uuid.UUID {
	var ids []uuid.UUID
	donburi.NewQuery(filter.Contains(IdentityComponent)).Each(s.world, func(entry *donburi.Entry) {
		ids = append(ids, IdentityComponent.Get(entry).ID)
	})
	return ids
}

// ProcessEvents delivers queued entity events to subscribers.
func (s *Store) ProcessEvents() {
	EntityEventType.ProcessEvents(s.world)
}

// Lookup implements trackview.EntityStore.
func (s *Store) Lookup(id uuid.UUID) (trackview.Entity, bool) {
	if s.entry(id) == nil {
		return nil, false
	}
	return &entity{store: s, id: id}, true
}

// Subscribe implements trackview.EntityStore.
func (s *Store) Subscribe(id uuid.UUID, l trackview.EntityListener) func() {
	sub := &subscription{l: l}
	s.listeners[id] = append(s.listeners[id], sub)
	return func() {
		subs := slices.DeleteFunc(s.listeners[id], func(x *subscription) bool { return x == sub })
		if len(subs) == 0 {
			delete(s.listeners, id)
		} else {
			s.listeners[id] = subs
		}
	}
}

// Subscribers returns the number of live subscriptions per entity.
func (s *Store) Subscribers() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(s.listeners))
	for id, subs := range s.listeners {
		out[id] = len(subs)
	}
	return out
}

func (s *Store) entry(id uuid.UUID) *donburi.Entry {
	e, ok := s.index[id]
	if !ok || !s.world.Valid(e) {
		return nil
	}
	return s.world.Entry(e)
}

func (s *Store) publish(id uuid.UUID, kind trackview.EntityEventKind) {
	EntityEventType.Publish(s.world, trackview.EntityEvent{Entity: id, Kind: kind})
}

func (s *Store) dispatch(_ donburi.World, ev trackview.EntityEvent) {
	for _, sub := range slices.Clone(s.listeners[ev.Entity]) {
		sub.l.OnEntityEvent(ev)
	}
}

// Visible reports the visibility component of the entity.
func (s *Store) Visible(id uuid.UUID) bool {
	entry := s.entry(id)
	return entry != nil && VisibilityComponent.Get(entry).Visible
}

// Properties returns a copy of the entity's float properties.
func (s *Store) Properties(id uuid.UUID) map[string]float64 {
	entry := s.entry(id)
	if entry == nil {
		return nil
	}
	return maps.Clone(PropertiesComponent.Get(entry).Values)
}

// entity is the trackview.Entity view of a store entry. It re-resolves the
// entry on every call so it never outlives a destroyed entity.
type entity struct {
	store *Store
	id    uuid.UUID
}

func (e *entity) ID() uuid.UUID { return e.id }

func (e *entity) Name() string {
	if entry := e.store.entry(e.id); entry != nil {
		return IdentityComponent.Get(entry).Name
	}
	return ""
}

func (e *entity) Transform() trackview.Transform {
	if entry := e.store.entry(e.id); entry != nil {
		return *TransformComponent.Get(entry)
	}
	return trackview.IdentityTransform
}

func (e *entity) SetTransform(tr trackview.Transform) {
	if entry := e.store.entry(e.id); entry != nil {
		TransformComponent.SetValue(entry, tr)
	}
}

func (e *entity) Property(name string) (float64, bool) {
	entry := e.store.entry(e.id)
	if entry == nil {
		return 0, false
	}
	v, ok := PropertiesComponent.Get(entry).Values[name]
	return v, ok
}

func (e *entity) SetProperty(name string, v float64) bool {
	entry := e.store.entry(e.id)
	if entry == nil {
		return false
	}
	props := PropertiesComponent.Get(entry)
	if _, ok := props.Values[name]; !ok {
		return false
	}
	props.Values[name] = v
	return true
}

func (e *entity) SetVisible(visible bool) {
	if entry := e.store.entry(e.id); entry != nil {
		VisibilityComponent.SetValue(entry, VisibilityData{Visible: visible})
	}
}

func (e *entity) Components() []trackview.ComponentInfo {
	entry := e.store.entry(e.id)
	if entry == nil {
		return nil
	}
	return slices.Clone(ComponentsComponent.Get(entry).Items)
}
