package trackview

import (
	"fmt"
	"os"
)

// IsActive reports whether the node takes part in animation: its sequence
// is bound and it either has no director ancestor or its nearest director is
// the active one.
func (n *AnimNode) IsActive() bool {
	seq := n.Sequence()
	if seq == nil || !seq.bound {
		return false
	}
	d := n.Director()
	return d == nil || d == seq.activeDirector
}

// IsBound reports whether the node is bound to its runtime objects.
func (n *AnimNode) IsBound() bool { return n.bound }

// Entity returns the resolved runtime entity, or nil. Component nodes share
// the entity of their entity node.
func (n *AnimNode) Entity() Entity {
	if n.nodeType == AnimNodeComponent {
		if p := asAnimNode(n.parent); p != nil {
			return p.entity
		}
		return nil
	}
	return n.entity
}

// Bind attaches the node and its active descendants to runtime objects.
// Inactive nodes are skipped together with their subtree. Binding a bound
// node only retries resolving an unresolved entity.
func (n *AnimNode) Bind() {
	if !n.IsActive() {
		return
	}
	if n.bound {
		if n.entity == nil && n.resolveEntity() {
			n.SyncComponents()
		}
		for _, c := range n.children {
			if a := asAnimNode(c); a != nil {
				a.Bind()
			}
		}
		return
	}
	seq := n.Sequence()
	batch := seq.BeginNotifications()
	defer batch.End()

	n.bound = true
	if n.animator != nil {
		n.animator.Bind(n)
	}
	if n.resolveEntity() {
		n.SyncComponents()
	}
	if n.self.Kind() != KindSequence {
		seq.OnNodeChanged(n.self, ChangeOwnerChanged)
	}
	for _, c := range n.children {
		if a := asAnimNode(c); a != nil {
			a.Bind()
		}
	}
}

// Unbind releases the runtime binding of the node and of every descendant,
// whatever their activity.
func (n *AnimNode) Unbind() {
	if n.bound {
		n.bound = false
		n.releaseEntity()
		if n.animator != nil {
			n.animator.Unbind(n)
		}
	}
	for _, c := range n.children {
		if a := asAnimNode(c); a != nil {
			a.Unbind()
		}
	}
}

// resolveEntity looks up the node's entity and subscribes to its events.
// An unresolvable id leaves the node bound but entity-less.
func (n *AnimNode) resolveEntity() bool {
	if n.nodeType != AnimNodeEntity || n.entity != nil {
		return n.entity != nil
	}
	seq := n.Sequence()
	if seq == nil || seq.store == nil {
		return false
	}
	ent, ok := seq.store.Lookup(n.entityID)
	if !ok {
		if globalDebug {
			_, _ = fmt.Fprintf(os.Stderr, "[trackview] warning: entity %s of node %q is not resolvable\n", n.entityID, n.name)
		}
		return false
	}
	n.entity = ent
	n.unsubscribe = seq.store.Subscribe(n.entityID, n)
	if n.hidden {
		ent.SetVisible(false)
	}
	return true
}

func (n *AnimNode) releaseEntity() {
	if n.unsubscribe != nil {
		n.unsubscribe()
		n.unsubscribe = nil
	}
	n.entity = nil
}

// OnEntityEvent implements EntityListener.
func (n *AnimNode) OnEntityEvent(ev EntityEvent) {
	seq := n.Sequence()
	switch ev.Kind {
	case EntityRemoved:
		n.releaseEntity()
		seq.OnNodeChanged(n.self, ChangeOwnerChanged)
	case EntityComponentsChanged:
		n.SyncComponents()
	case EntitySelected:
		n.flags |= FlagEntitySelected
	case EntityDeselected:
		n.flags &^= FlagEntitySelected
	case EntityTransformChanged:
		// The entity moved outside of the timeline; nothing to update until
		// the next evaluation overwrites it.
	}
}

// --- Evaluation ---

// Animate runs the node's animator and applies its tracks when the node is
// active and enabled, then recurses into every child.
func (n *AnimNode) Animate(ac AnimContext) {
	if n.IsActive() && !n.IsDisabled() {
		if n.animator != nil {
			n.animator.Animate(n, ac)
		}
		n.applyTracks(ac.Time)
	}
	for _, c := range n.children {
		if a := asAnimNode(c); a != nil {
			a.Animate(ac)
		}
	}
}

// Render collects the node's overlay commands when active, then recurses
// into every child.
func (n *AnimNode) Render(rc *RenderContext) {
	if n.IsActive() && !n.IsDisabled() && n.animator != nil {
		n.animator.Render(n, rc)
	}
	for _, c := range n.children {
		if a := asAnimNode(c); a != nil {
			a.Render(rc)
		}
	}
}
