package trackview

import "github.com/google/uuid"

// Entity is a runtime object an entity node animates. Implementations are
// owned by the host; the sequence only reads and writes through this
// interface.
type Entity interface {
	ID() uuid.UUID
	Name() string
	Transform() Transform
	SetTransform(tr Transform)
	// Property returns a named animatable float property.
	Property(name string) (float64, bool)
	// SetProperty writes a named float property and reports whether it exists.
	SetProperty(name string, v float64) bool
	SetVisible(visible bool)
	Components() []ComponentInfo
}

// ComponentInfo describes one component of an entity.
type ComponentInfo struct {
	ID         uint64
	TypeName   string
	Properties []string // animatable float properties
	Animatable bool
}

// EntityStore resolves entity ids and delivers entity change events.
type EntityStore interface {
	Lookup(id uuid.UUID) (Entity, bool)
	// Subscribe registers l for events of entity id and returns the function
	// that cancels the registration.
	Subscribe(id uuid.UUID, l EntityListener) (cancel func())
}

// EntityListener receives change events of a subscribed entity.
type EntityListener interface {
	OnEntityEvent(ev EntityEvent)
}

// EntityEventKind identifies an entity change.
type EntityEventKind uint8

const (
	EntityTransformChanged  EntityEventKind = iota // moved outside of the timeline
	EntityComponentsChanged                        // components added or removed
	EntityRemoved                                  // destroyed
	EntitySelected                                 // selected in the scene
	EntityDeselected                               // deselected in the scene
)

var entityEventNames = [...]string{"TransformChanged", "ComponentsChanged", "Removed", "Selected", "Deselected"}

func (k EntityEventKind) String() string {
	if int(k) < len(entityEventNames) {
		return entityEventNames[k]
	}
	return "EntityEventKind(?)"
}

// EntityEvent is one change of an entity.
type EntityEvent struct {
	Entity uuid.UUID
	Kind   EntityEventKind
}
