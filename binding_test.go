package trackview

import (
	"math"
	"slices"
	"testing"

	"github.com/google/uuid"
)

// storeSequence returns an unbound sequence resolving entities in a fresh
// fake store.
func storeSequence() (*Sequence, *fakeStore, *messages) {
	store := newFakeStore()
	msgs := &messages{}
	seq := NewSequence("seq", WithEntityStore(store), WithNotifier(msgs))
	return seq, store, msgs
}

func assertLog(t *testing.T, store *fakeStore, want ...string) {
	t.Helper()
	if !slices.Equal(store.log, want) {
		t.Errorf("store log = %v, want %v", store.log, want)
	}
}

func transformNode(t *testing.T, entityNode *AnimNode) *AnimNode {
	t.Helper()
	for _, c := range entityNode.Children() {
		if a, ok := c.(*AnimNode); ok && a.Type() == AnimNodeComponent && a.Component().TypeName == TransformComponent {
			return a
		}
	}
	t.Fatalf("%s has no Transform component node", entityNode.Name())
	return nil
}

func TestBindResolvesEntity(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	if len(store.log) != 0 {
		t.Fatalf("unbound sequence touched the store: %v", store.log)
	}

	seq.Bind()
	if !seq.IsBound() || !node.IsBound() {
		t.Fatal("sequence and node should be bound")
	}
	if node.Entity() != Entity(e) {
		t.Error("node should hold the resolved entity")
	}
	assertLog(t, store, "lookup crate", "subscribe crate")
}

func TestBindTwiceIsNoop(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	seq.Bind()

	rec := &recorder{}
	seq.AddListener(rec)
	store.resetLog()
	seq.Bind()
	if len(rec.events) != 0 {
		t.Errorf("events = %v, want none", rec.events)
	}
	assertLog(t, store)
}

func TestUnbindReleasesEntity(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	seq.Bind()
	store.resetLog()

	seq.Unbind()
	if seq.IsBound() || node.IsBound() {
		t.Error("sequence and node should be unbound")
	}
	if node.Entity() != nil {
		t.Error("unbound node should drop its entity")
	}
	assertLog(t, store, "unsubscribe crate")

	store.resetLog()
	seq.Unbind()
	assertLog(t, store)
}

func TestUnbindNeverBoundIsNoop(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	rec := &recorder{}
	seq.AddListener(rec)

	seq.Unbind()
	if len(rec.events) != 0 {
		t.Errorf("events = %v, want none", rec.events)
	}
	assertLog(t, store)
}

func TestUnresolvableEntityStaysBound(t *testing.T) {
	seq, store, _ := storeSequence()
	node := seq.CreateSubNode("ghost", AnimNodeEntity, uuid.New())
	seq.Bind()
	if !node.IsBound() {
		t.Error("node should be bound without an entity")
	}
	if node.Entity() != nil {
		t.Error("entity should be unresolved")
	}

	// Binding a bound node retries the lookup.
	node.Bind()
	assertLog(t, store, "lookup-miss", "lookup-miss")
}

func TestCreateUnderBoundSequenceSyncsComponents(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.Bind()
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)

	comp := transformNode(t, node)
	assertNames(t, childNames(comp), "Position", "Rotation", "Scale")
	if !comp.IsBound() {
		t.Error("component node should be bound")
	}
	if comp.Entity() != Entity(e) {
		t.Error("component node should share its entity node's entity")
	}
}

func TestAnimateAppliesTransform(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.Bind()
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	x := transformNode(t, node).TrackForParameter(Param(ParamPositionX), 0)
	addFloatKey(x, 0, 0)
	addFloatKey(x, 2, 10)

	seq.Animate(AnimContext{Time: 1})
	if got := e.tr.Position.X; math.Abs(got-5) > 1e-4 {
		t.Errorf("Position.X = %v, want 5", got)
	}
	if e.tr.Scale != (Vec3{1, 1, 1}) {
		t.Errorf("Scale = %v, want the entity's own scale", e.tr.Scale)
	}

	e.tr.Position.X = 99
	seq.Animate(AnimContext{Time: 1})
	if e.tr.Position.X != 99 {
		t.Error("unforced evaluation at the same time should be skipped")
	}
	seq.Animate(AnimContext{Time: 1, Force: true})
	if math.Abs(e.tr.Position.X-5) > 1e-4 {
		t.Error("forced evaluation should re-apply")
	}
}

func TestDisabledNodeIsNotApplied(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.Bind()
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	comp := transformNode(t, node)
	x := comp.TrackForParameter(Param(ParamPositionX), 0)
	addFloatKey(x, 0, 7)

	comp.SetDisabled(true)
	seq.Animate(AnimContext{Time: 0, Force: true})
	if e.tr.Position.X != 0 {
		t.Errorf("Position.X = %v, want 0", e.tr.Position.X)
	}
}

func TestVisibilityTrack(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.Bind()
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	vis := node.CreateTrack(Param(ParamVisibility))
	vis.CreateKey(1).SetValue(BoolKey{Value: false})

	seq.Animate(AnimContext{Time: 2})
	if e.visible {
		t.Error("entity should be hidden after the key")
	}
	seq.Animate(AnimContext{Time: 0.5})
	if !e.visible {
		t.Error("entity should be visible before the first key")
	}
}

func TestSetHiddenHidesEntity(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.Bind()
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	node.SetHidden(true)
	if e.visible {
		t.Error("hidden node should hide its entity")
	}
	node.SetHidden(false)
	if !e.visible {
		t.Error("unhidden node should show its entity")
	}
}

// --- Entity events ---

func TestEntityRemovedReleasesNode(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.Bind()
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	rec := &recorder{}
	seq.AddListener(rec)

	store.emit(e.id, EntityRemoved)
	if node.Entity() != nil {
		t.Error("entity should be released")
	}
	if rec.count("changed crate OwnerChanged") != 1 {
		t.Errorf("events = %v, want OwnerChanged", rec.events)
	}
	if len(store.subs[e.id]) != 0 {
		t.Error("node should have unsubscribed")
	}
}

func TestEntitySelectionFlag(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.Bind()
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)

	store.emit(e.id, EntitySelected)
	if !node.IsEntitySelected() {
		t.Error("IsEntitySelected should be set")
	}
	store.emit(e.id, EntityDeselected)
	if node.IsEntitySelected() {
		t.Error("IsEntitySelected should be cleared")
	}
}

func TestComponentsChangedSyncsNodes(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("lamp")
	seq.Bind()
	node := seq.CreateSubNode("lamp", AnimNodeEntity, e.id)

	e.props["intensity"] = 0.5
	e.comps = append(e.comps, ComponentInfo{ID: 2, TypeName: "Light", Properties: []string{"intensity"}, Animatable: true})
	store.emit(e.id, EntityComponentsChanged)
	assertNames(t, childNames(node), "Light", TransformComponent)

	light := node.Children()[0].(*AnimNode)
	tr := light.CreateTrack(PropertyParam("intensity"))
	if tr == nil {
		t.Fatal("light should accept its intensity property")
	}
	if tr.DefaultValue() != 0.5 {
		t.Errorf("DefaultValue = %v, want 0.5 from the entity", tr.DefaultValue())
	}
	tr.CreateKey(0).SetValue(FloatKey{Value: 1})
	seq.Animate(AnimContext{Time: 0.25})
	if e.props["intensity"] != 1 {
		t.Errorf("intensity = %v, want 1", e.props["intensity"])
	}

	// Dropping the transform component disables its node for good.
	e.comps = e.comps[1:]
	store.emit(e.id, EntityComponentsChanged)
	comp := transformNode(t, node)
	if !comp.IsDisabled() || comp.CanBeEnabled() {
		t.Error("node of a vanished component should be disabled and locked")
	}
	comp.SetDisabled(false)
	if !comp.IsDisabled() {
		t.Error("locked node should stay disabled")
	}

	// A returning component unlocks it again.
	e.comps = append(e.comps, ComponentInfo{ID: 1, TypeName: TransformComponent, Animatable: true})
	store.emit(e.id, EntityComponentsChanged)
	if comp.IsDisabled() {
		t.Error("node should be re-enabled when its component returns")
	}
}

// --- Directors and activity ---

func TestInactiveDirectorSubtreeIsNotBound(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	d := seq.CreateSubNode("d", AnimNodeDirector, uuid.Nil)
	inside := d.CreateSubNode("crate", AnimNodeEntity, e.id)

	seq.Bind()
	if !d.IsActive() || !d.IsBound() {
		t.Error("a top-level director is active")
	}
	if inside.IsActive() || inside.IsBound() {
		t.Error("nodes of an inactive director should stay unbound")
	}
	assertLog(t, store)

	d.SetAsActiveDirector()
	if !inside.IsBound() {
		t.Error("activating the director should bind its subtree")
	}
	assertLog(t, store, "lookup crate", "subscribe crate")
}

func TestSwitchingDirectorRebinds(t *testing.T) {
	seq, store, _ := storeSequence()
	a, b := store.add("a"), store.add("b")
	d1 := seq.CreateSubNode("d1", AnimNodeDirector, uuid.Nil)
	d2 := seq.CreateSubNode("d2", AnimNodeDirector, uuid.Nil)
	n1 := d1.CreateSubNode("a", AnimNodeEntity, a.id)
	n2 := d2.CreateSubNode("b", AnimNodeEntity, b.id)
	d1.SetAsActiveDirector()
	seq.Bind()
	store.resetLog()

	rec := &recorder{}
	seq.AddListener(rec)
	d2.SetAsActiveDirector()
	if n1.IsBound() || !n2.IsBound() {
		t.Error("only the active director's subtree should be bound")
	}
	assertLog(t, store, "unsubscribe a", "lookup b", "subscribe b")
	if rec.count("changed d2 SetAsActiveDirector") != 1 {
		t.Errorf("events = %v, want SetAsActiveDirector", rec.events)
	}
	if !d2.IsActiveDirector() || d1.IsActiveDirector() {
		t.Error("d2 should be the active director")
	}
}

func TestSetAsActiveDirectorOnUnboundSequence(t *testing.T) {
	seq, store, _ := storeSequence()
	d := seq.CreateSubNode("d", AnimNodeDirector, uuid.Nil)
	d.SetAsActiveDirector()
	if seq.IsBound() {
		t.Error("an unbound sequence should stay unbound")
	}
	if seq.ActiveDirector() != d {
		t.Error("ActiveDirector should be d")
	}
	assertLog(t, store)
}

func TestRemovingActiveDirectorClearsIt(t *testing.T) {
	seq, _, _ := storeSequence()
	d := seq.CreateSubNode("d", AnimNodeDirector, uuid.Nil)
	d.SetAsActiveDirector()
	seq.RemoveSubNode(d)
	if seq.ActiveDirector() != nil {
		t.Error("ActiveDirector should be cleared")
	}
}

// --- Ownership ---

func TestAddEntities(t *testing.T) {
	seq, store, msgs := storeSequence()
	e := store.add("crate")

	added := seq.AddEntities([]uuid.UUID{e.id, uuid.New()})
	if added.Count() != 1 || added.Node(0).Name() != "crate" {
		t.Errorf("added = %d nodes, want the crate", added.Count())
	}
	if len(msgs.msgs) != 1 {
		t.Errorf("messages = %v, want one for the unknown id", msgs.msgs)
	}
	if again := seq.AddEntities([]uuid.UUID{e.id}); again.Count() != 0 {
		t.Error("an entity already in the scope should not be added twice")
	}
}

func TestAddEntitiesPicksFreeName(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.CreateSubNode("crate", AnimNodeGroup, uuid.Nil)
	added := seq.AddEntities([]uuid.UUID{e.id})
	if added.Count() != 1 || added.Node(0).Name() != "crate2" {
		t.Errorf("added = %v, want crate2", added.Nodes())
	}
}

func TestSetEntityIDRebinds(t *testing.T) {
	seq, store, _ := storeSequence()
	a, b := store.add("a"), store.add("b")
	node := seq.CreateSubNode("actor", AnimNodeEntity, a.id)
	seq.Bind()
	store.resetLog()

	node.SetEntityID(b.id)
	assertLog(t, store, "unsubscribe a", "lookup b", "subscribe b")
	if node.Entity() != Entity(b) {
		t.Error("node should be bound to b")
	}
}

func TestRemoveSubNodeUnbinds(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.Bind()
	node := seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	store.resetLog()

	seq.RemoveSubNode(node)
	if node.IsBound() {
		t.Error("removed node should be unbound")
	}
	assertLog(t, store, "unsubscribe crate")
}
