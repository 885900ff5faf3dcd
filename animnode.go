package trackview

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// AnimNode is an animatable node: an entity, one of its components, a
// director hosting nested sequences, or one of the auxiliary kinds (camera,
// comment, light, ...). Its children are sub-nodes and tracks.
type AnimNode struct {
	nodeBase

	nodeType  AnimNodeType
	flags     NodeFlags
	entityID  uuid.UUID
	component ComponentInfo
	animator  Animator

	bound       bool
	entity      Entity
	unsubscribe func()
}

func newAnimNode(name string, t AnimNodeType, owner uuid.UUID) *AnimNode {
	n := &AnimNode{nodeType: t, entityID: owner}
	n.self = n
	n.name = name
	if t != AnimNodeComponent {
		n.flags |= FlagCanChangeName
	}
	n.animator = newAnimator(t)
	return n
}

// Kind returns KindAnimNode.
func (n *AnimNode) Kind() NodeKind { return KindAnimNode }

// Type returns the node kind tag.
func (n *AnimNode) Type() AnimNodeType { return n.nodeType }

// Flags returns the node flags.
func (n *AnimNode) Flags() NodeFlags { return n.flags }

// EntityID returns the id of the external entity the node animates, or
// uuid.Nil.
func (n *AnimNode) EntityID() uuid.UUID { return n.entityID }

// Component returns the component a Component node animates.
func (n *AnimNode) Component() ComponentInfo { return n.component }

// Animator returns the kind-specific behavior attached to the node, or nil.
func (n *AnimNode) Animator() Animator { return n.animator }

// IsGroupNode reports whether the node may hold sub-nodes.
func (n *AnimNode) IsGroupNode() bool {
	if n.self != nil && n.self.Kind() == KindSequence {
		return true
	}
	switch n.nodeType {
	case AnimNodeDirector, AnimNodeGroup, AnimNodeEntity:
		return true
	}
	return false
}

// CanBeRenamed reports whether SetName may change the name.
func (n *AnimNode) CanBeRenamed() bool { return n.flags&FlagCanChangeName != 0 }

// CanBeEnabled reports whether the node may be re-enabled. Nodes disabled
// because their component vanished stay disabled.
func (n *AnimNode) CanBeEnabled() bool { return n.flags&FlagDisabledForComponent == 0 }

// IsDisabled reports whether the node is excluded from animation.
func (n *AnimNode) IsDisabled() bool { return n.flags&FlagDisabled != 0 }

// SetDisabled enables or disables the node.
func (n *AnimNode) SetDisabled(disabled bool) {
	if n.IsDisabled() == disabled {
		return
	}
	if !disabled && !n.CanBeEnabled() {
		return
	}
	seq := n.Sequence()
	if disabled {
		n.flags |= FlagDisabled
		seq.OnNodeChanged(n.self, ChangeDisabled)
	} else {
		n.flags &^= FlagDisabled
		seq.OnNodeChanged(n.self, ChangeEnabled)
	}
}

// SetHidden hides or shows the node and its bound entity.
func (n *AnimNode) SetHidden(hidden bool) {
	if n.hidden == hidden {
		return
	}
	n.hidden = hidden
	if ent := n.Entity(); ent != nil {
		ent.SetVisible(!hidden)
	}
	if hidden {
		n.Sequence().OnNodeChanged(n.self, ChangeHidden)
	} else {
		n.Sequence().OnNodeChanged(n.self, ChangeUnhidden)
	}
}

// IsEntitySelected reports whether the bound entity is selected in the scene.
func (n *AnimNode) IsEntitySelected() bool { return n.flags&FlagEntitySelected != 0 }

// --- Naming ---

// scope returns the node whose subtree defines name uniqueness: the nearest
// director, or the sequence.
func (n *AnimNode) scope() *AnimNode {
	if d := n.Director(); d != nil {
		return d
	}
	if seq := n.Sequence(); seq != nil {
		return &seq.AnimNode
	}
	return n
}

// SetName renames the node. The rename is rejected when the node cannot be
// renamed or another node of its director scope already uses the name.
func (n *AnimNode) SetName(name string) bool {
	if name == "" || !n.CanBeRenamed() {
		return false
	}
	if name == n.name {
		return true
	}
	scope := n.scope()
	for _, other := range scope.AnimNodesByName(name).Nodes() {
		if other != n {
			n.Sequence().logf("'%s' already exists in '%s', rename rejected", name, scope.name)
			return false
		}
	}
	old := n.name
	n.name = name
	if n.parent != nil {
		n.parent.base().sortChildren()
	}
	n.Sequence().OnNodeRenamed(n.self, old)
	return true
}

// ownerScope is the director or sequence whose subtree new children of n
// share names and entities with.
func (n *AnimNode) ownerScope() *AnimNode {
	if n.nodeType == AnimNodeDirector || n.self.Kind() == KindSequence {
		return n
	}
	return n.scope()
}

// AvailableNodeNameStartingWith returns name, or name followed by the
// smallest number from 2 up that is unused in the node's director scope.
func (n *AnimNode) AvailableNodeNameStartingWith(name string) string {
	taken := map[string]bool{}
	for _, c := range n.ownerScope().AllAnimNodes().Nodes() {
		taken[strings.ToLower(c.name)] = true
	}
	if !taken[strings.ToLower(name)] {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !taken[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

// --- Sub-nodes ---

// CreateSubNode creates a child node of type t. Entity nodes need the owner
// entity id. Returns nil, with a user message where appropriate, when the
// node cannot hold the child, when another node of the director scope
// already has the name, or, for entity nodes, already owns the entity. An
// entity node whose name is taken by another entity gets a numbered name.
func (n *AnimNode) CreateSubNode(name string, t AnimNodeType, owner uuid.UUID) *AnimNode {
	seq := n.Sequence()
	switch {
	case !n.IsGroupNode():
		seq.logf("'%s' cannot contain sub-nodes", n.name)
		return nil
	case t == AnimNodeComponent || t == AnimNodeInvalid:
		return nil
	case n.nodeType == AnimNodeEntity:
		seq.logf("Entity node '%s' can only contain components", n.name)
		return nil
	case t == AnimNodeEntity && owner == uuid.Nil:
		seq.logf("Failed to add '%s' to sequence '%s', could not find associated entity", name, seq.Name())
		return nil
	}
	scope := n.ownerScope()
	// An entity appears once per scope; its name may repeat another entity's.
	taken := scope.AnimNodesByName(name).Count() > 0
	if t == AnimNodeEntity {
		taken = scope.AllOwnedNodes(owner).Count() > 0
	}
	if taken {
		seq.logf("'%s' already exists in sequence '%s', skipping...", name, scope.Name())
		return nil
	}

	batch := seq.BeginNotifications()
	defer batch.End()
	sub := newAnimNode(n.AvailableNodeNameStartingWith(name), t, owner)
	n.AddChild(sub)
	for _, p := range defaultParams[t] {
		sub.CreateTrack(Param(p))
	}
	sub.Bind()
	return sub
}

// AddComponent creates a Component child of an entity node for comp.
// Returns nil when the node is not an entity node or already holds comp.
func (n *AnimNode) AddComponent(comp ComponentInfo) *AnimNode {
	if n.nodeType != AnimNodeEntity {
		return nil
	}
	for _, c := range n.children {
		if a := asAnimNode(c); a != nil && a.nodeType == AnimNodeComponent && a.component.ID == comp.ID {
			return nil
		}
	}
	seq := n.Sequence()
	batch := seq.BeginNotifications()
	defer batch.End()

	sub := newAnimNode(comp.TypeName, AnimNodeComponent, n.entityID)
	// Entity stores hand out their own slices; keep an independent copy.
	if err := copier.CopyWithOption(&sub.component, &comp, copier.Option{DeepCopy: true}); err != nil {
		sub.component = comp
	}
	n.AddChild(sub)
	if comp.TypeName == TransformComponent {
		for _, p := range transformParams {
			sub.CreateTrack(p.Param)
		}
	}
	sub.Bind()
	return sub
}

// RemoveSubNode unbinds and removes a direct child node.
func (n *AnimNode) RemoveSubNode(sub *AnimNode) {
	seq := n.Sequence()
	if seq != nil && seq.activeDirector != nil && isAncestor(sub, seq.activeDirector) {
		seq.activeDirector = nil
	}
	n.RemoveChild(sub)
}

// SyncComponents reconciles the Component children of an entity node with
// the entity's current components. Nodes of vanished components are kept,
// with their keys, but disabled; returning components re-enable them.
// Binding runs it whenever the entity resolves.
func (n *AnimNode) SyncComponents() {
	ent := n.Entity()
	if n.nodeType != AnimNodeEntity || ent == nil {
		return
	}
	seq := n.Sequence()
	batch := seq.BeginNotifications()
	defer batch.End()

	present := map[uint64]ComponentInfo{}
	for _, c := range ent.Components() {
		present[c.ID] = c
	}
	seen := map[uint64]bool{}
	for _, c := range n.children {
		a := asAnimNode(c)
		if a == nil || a.nodeType != AnimNodeComponent {
			continue
		}
		_, ok := present[a.component.ID]
		seen[a.component.ID] = ok
		a.setDisabledForComponent(!ok)
	}
	for _, c := range ent.Components() {
		if !seen[c.ID] && c.Animatable {
			n.AddComponent(c)
		}
	}
	seq.ForceAnimation()
}

func (n *AnimNode) setDisabledForComponent(disabled bool) {
	if (n.flags&FlagDisabledForComponent != 0) == disabled {
		return
	}
	seq := n.Sequence()
	if disabled {
		n.flags |= FlagDisabledForComponent | FlagDisabled
		seq.OnNodeChanged(n.self, ChangeDisabled)
	} else {
		n.flags &^= FlagDisabledForComponent | FlagDisabled
		seq.OnNodeChanged(n.self, ChangeEnabled)
	}
}

// AddEntities creates an entity node for every id not yet present in the
// node's scope and returns the created nodes. Unknown ids are reported.
func (n *AnimNode) AddEntities(ids []uuid.UUID) AnimNodeBundle {
	var added AnimNodeBundle
	seq := n.Sequence()
	if seq == nil || seq.store == nil {
		return added
	}
	batch := seq.BeginNotifications()
	defer batch.End()
	for _, id := range ids {
		if n.ownerScope().AllOwnedNodes(id).Count() > 0 {
			continue
		}
		ent, ok := seq.store.Lookup(id)
		if !ok {
			seq.logf("Entity %s could not be found", id)
			continue
		}
		if sub := n.CreateSubNode(ent.Name(), AnimNodeEntity, id); sub != nil {
			added.Append(sub)
		}
	}
	return added
}

// SetEntityID rebinds the node to another entity.
func (n *AnimNode) SetEntityID(id uuid.UUID) {
	if n.entityID == id || n.nodeType == AnimNodeComponent {
		return
	}
	seq := n.Sequence()
	batch := seq.BeginNotifications()
	defer batch.End()
	n.Unbind()
	n.entityID = id
	for _, c := range n.children {
		if a := asAnimNode(c); a != nil && a.nodeType == AnimNodeComponent {
			a.entityID = id
		}
	}
	n.Bind()
	if n.bound && n.self.Kind() != KindSequence {
		seq.OnNodeChanged(n.self, ChangeOwnerChanged)
	}
}

// --- Reparenting ---

// IsValidReparentingTo reports whether the node may move below target.
func (n *AnimNode) IsValidReparentingTo(target *AnimNode) bool {
	if target == nil || n.parent == target.self || !target.IsGroupNode() {
		return false
	}
	if target.nodeType == AnimNodeEntity || n.nodeType == AnimNodeComponent {
		return false
	}
	if target.Sequence() != n.Sequence() || isAncestor(n.self, target.self) {
		return false
	}
	scope := target
	if target.nodeType != AnimNodeDirector && target.self.Kind() != KindSequence {
		scope = target.scope()
	}
	for _, other := range scope.AnimNodesByName(n.name).Nodes() {
		if other != n {
			return false
		}
	}
	return true
}

// SetNewParent moves the node below target. The node is unbound, removed and
// re-added, then bound again. Returns false for an invalid target.
func (n *AnimNode) SetNewParent(target *AnimNode) bool {
	if !n.IsValidReparentingTo(target) {
		return false
	}
	seq := n.Sequence()
	batch := seq.BeginNotifications()
	defer batch.End()
	n.parent.base().RemoveChild(n.self)
	target.AddChild(n.self)
	n.Bind()
	return true
}

// --- Tracks ---

// SupportedParams returns the parameters the node accepts.
func (n *AnimNode) SupportedParams() []ParamInfo {
	if n.nodeType != AnimNodeComponent {
		return SupportedParams(n.nodeType)
	}
	if n.component.TypeName == TransformComponent {
		return transformParams
	}
	params := make([]ParamInfo, 0, len(n.component.Properties))
	for _, p := range n.component.Properties {
		params = append(params, ParamInfo{Param: PropertyParam(p), ValueType: ValueFloat})
	}
	return params
}

// IsParamValid reports whether the node accepts tracks for p.
func (n *AnimNode) IsParamValid(p ParamType) bool {
	_, ok := n.paramInfo(p)
	return ok
}

func (n *AnimNode) paramInfo(p ParamType) (ParamInfo, bool) {
	for _, info := range n.SupportedParams() {
		if info.Param == p {
			return info, true
		}
	}
	return ParamInfo{}, false
}

// CreateTrack adds a track for p. Compound parameters get their three float
// sub-tracks. Returns nil when the node does not support p, or when a
// single-track parameter already has its track.
func (n *AnimNode) CreateTrack(p ParamType) *Track {
	info, ok := n.paramInfo(p)
	if !ok {
		n.Sequence().logf("'%s' does not support parameter %s", n.name, p)
		return nil
	}
	if info.Flags&ParamMultipleTracks == 0 && n.directTrack(p, 0) != nil {
		return nil
	}
	seq := n.Sequence()
	batch := seq.BeginNotifications()
	defer batch.End()

	t := newTrack(p, info.ValueType, p.String())
	n.AddChild(t)
	t.id = seq.allocTrackID()
	if subs, ok := subTrackParams[p.Type]; ok {
		for _, sp := range subs {
			st := newTrack(Param(sp), ValueFloat, animParamNames[sp])
			t.AddChild(st)
			st.id = seq.allocTrackID()
		}
	}
	n.applyEntityDefaults(t)
	return t
}

// RemoveTrack removes a track of this node.
func (n *AnimNode) RemoveTrack(t *Track) {
	if t == nil || t.parent != n.self {
		return
	}
	n.RemoveChild(t)
}

func (n *AnimNode) directTrack(p ParamType, index int) *Track {
	i := 0
	for _, c := range n.children {
		if t, ok := c.(*Track); ok && t.param == p {
			if i == index {
				return t
			}
			i++
		}
	}
	return nil
}

// TrackForParameter returns the index-th track for p among this node's
// tracks and their sub-tracks, or nil.
func (n *AnimNode) TrackForParameter(p ParamType, index int) *Track {
	if t := n.directTrack(p, index); t != nil {
		return t
	}
	for _, c := range n.children {
		if t, ok := c.(*Track); ok && t.IsCompound() {
			for _, sub := range t.SubTracks() {
				if sub.param == p && index == 0 {
					return sub
				}
			}
		}
	}
	return nil
}

// AllTracks returns every track and sub-track below the node.
func (n *AnimNode) AllTracks() TrackBundle { return n.tracks(false, nil) }

// SelectedTracks returns every selected track below the node.
func (n *AnimNode) SelectedTracks() TrackBundle { return n.tracks(true, nil) }

// TracksByParam returns the tracks for p below the node, with their
// sub-tracks.
func (n *AnimNode) TracksByParam(p ParamType) TrackBundle { return n.tracks(false, &p) }

func (n *AnimNode) tracks(onlySelected bool, p *ParamType) TrackBundle {
	var b TrackBundle
	for _, c := range n.children {
		switch v := c.(type) {
		case *Track:
			if p != nil && v.param != *p {
				continue
			}
			if !onlySelected || v.selected {
				b.Append(v)
			}
			for _, sub := range v.SubTracks() {
				if !onlySelected || sub.selected {
					b.Append(sub)
				}
			}
		default:
			if a := asAnimNode(c); a != nil {
				b.AppendBundle(a.tracks(onlySelected, p))
			}
		}
	}
	return b
}

// --- Node queries ---

// AllAnimNodes returns every anim node below this node.
func (n *AnimNode) AllAnimNodes() AnimNodeBundle {
	return n.collectNodes(func(*AnimNode) bool { return true })
}

// SelectedAnimNodes returns the selected anim nodes below this node.
func (n *AnimNode) SelectedAnimNodes() AnimNodeBundle {
	return n.collectNodes(func(a *AnimNode) bool { return a.selected })
}

// AnimNodesByType returns the anim nodes of type t below this node.
func (n *AnimNode) AnimNodesByType(t AnimNodeType) AnimNodeBundle {
	return n.collectNodes(func(a *AnimNode) bool { return a.nodeType == t })
}

// AnimNodesByName returns this node and the anim nodes below it whose name
// equals name, ignoring case.
func (n *AnimNode) AnimNodesByName(name string) AnimNodeBundle {
	var b AnimNodeBundle
	if n.self.Kind() == KindAnimNode && strings.EqualFold(n.name, name) {
		b.Append(n)
	}
	b.AppendBundle(n.collectNodes(func(a *AnimNode) bool { return strings.EqualFold(a.name, name) }))
	return b
}

// AllOwnedNodes returns the anim nodes below this node bound to entity id.
func (n *AnimNode) AllOwnedNodes(id uuid.UUID) AnimNodeBundle {
	return n.collectNodes(func(a *AnimNode) bool { return a.entityID == id && a.nodeType == AnimNodeEntity })
}

func (n *AnimNode) collectNodes(match func(*AnimNode) bool) AnimNodeBundle {
	var b AnimNodeBundle
	for _, c := range n.children {
		a := asAnimNode(c)
		if a == nil {
			continue
		}
		if match(a) {
			b.Append(a)
		}
		b.AppendBundle(a.collectNodes(match))
	}
	return b
}

// --- Director ---

// IsActiveDirector reports whether the node is the sequence's active
// director.
func (n *AnimNode) IsActiveDirector() bool {
	seq := n.Sequence()
	return seq != nil && seq.activeDirector == n
}

// SetAsActiveDirector makes this director node the active one. A bound
// sequence is unbound and rebound so that only the new director's subtree is
// live.
func (n *AnimNode) SetAsActiveDirector() {
	seq := n.Sequence()
	if n.nodeType != AnimNodeDirector || seq == nil || seq.activeDirector == n {
		return
	}
	batch := seq.BeginNotifications()
	defer batch.End()
	wasBound := seq.bound
	seq.Unbind()
	seq.activeDirector = n
	if wasBound {
		seq.Bind()
	}
	seq.OnNodeChanged(n, ChangeSetAsActiveDirector)
}
