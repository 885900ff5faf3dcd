package trackview

import (
	"errors"
	"fmt"
	"slices"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrMalformedClipboard is returned when a clipboard document cannot be
// parsed or has an unexpected shape. Nothing is pasted in that case.
var ErrMalformedClipboard = errors.New("trackview: malformed clipboard document")

// Clipboard document kinds.
const (
	ClipboardKeys  = "CopyKeysNode"      // keys grouped by node and track
	ClipboardNodes = "CopyAnimNodesRoot" // whole node subtrees
)

// ClipboardDocument is the text exchange format of copy and paste.
type ClipboardDocument struct {
	Kind  string     `yaml:"kind"`
	Nodes []clipNode `yaml:"nodes"`
}

type clipNode struct {
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type"`
	Entity    string         `yaml:"entity,omitempty"`
	Component *clipComponent `yaml:"component,omitempty"`
	Disabled  bool           `yaml:"disabled,omitempty"`
	Hidden    bool           `yaml:"hidden,omitempty"`
	Tracks    []clipTrack    `yaml:"tracks,omitempty"`
	Nodes     []clipNode     `yaml:"nodes,omitempty"`
}

type clipComponent struct {
	ID         uint64   `yaml:"id"`
	Type       string   `yaml:"type"`
	Properties []string `yaml:"properties,omitempty"`
}

type clipTrack struct {
	Name      string      `yaml:"name"`
	Param     AnimParam   `yaml:"param"`
	Property  string      `yaml:"property,omitempty"`
	ValueType ValueType   `yaml:"valueType"`
	Default   float64     `yaml:"default,omitempty"`
	Disabled  bool        `yaml:"disabled,omitempty"`
	Muted     bool        `yaml:"muted,omitempty"`
	Keys      []clipKey   `yaml:"keys,omitempty"`
	SubTracks []clipTrack `yaml:"subTracks,omitempty"`
}

type clipKey struct {
	Time     float64   `yaml:"time"`
	Selected bool      `yaml:"selected,omitempty"`
	Kind     string    `yaml:"kind"`
	Value    yaml.Node `yaml:"value"`
}

// Marshal encodes the document as YAML.
func (d *ClipboardDocument) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// ParseClipboardDocument decodes a YAML clipboard document.
func ParseClipboardDocument(data []byte) (*ClipboardDocument, error) {
	var doc ClipboardDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedClipboard, err)
	}
	if doc.Kind != ClipboardKeys && doc.Kind != ClipboardNodes {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedClipboard, doc.Kind)
	}
	return &doc, nil
}

// --- Encoding ---

func encodeKeys(keys []Key, match func(*Key) bool) ([]clipKey, error) {
	out := make([]clipKey, 0, len(keys))
	for i := range keys {
		k := &keys[i]
		if match != nil && !match(k) {
			continue
		}
		ck := clipKey{Time: k.Time, Selected: k.Selected, Kind: valueKindName(k.Value)}
		if err := ck.Value.Encode(k.Value); err != nil {
			return nil, fmt.Errorf("encode key at %g: %w", k.Time, err)
		}
		out = append(out, ck)
	}
	return out, nil
}

func decodeKeys(cks []clipKey) ([]Key, error) {
	keys := make([]Key, 0, len(cks))
	for _, ck := range cks {
		p, ok := keyValueForKind(ck.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: unknown key kind %q", ErrMalformedClipboard, ck.Kind)
		}
		if err := ck.Value.Decode(p); err != nil {
			return nil, fmt.Errorf("%w: key at %g: %v", ErrMalformedClipboard, ck.Time, err)
		}
		keys = append(keys, Key{Time: ck.Time, Selected: ck.Selected, Value: derefKeyValue(p)})
	}
	return keys, nil
}

// encodeTrack encodes t with all its keys and sub-tracks.
func encodeTrack(t *Track) (clipTrack, error) {
	ct := clipTrack{
		Name:      t.name,
		Param:     t.param.Type,
		Property:  t.param.Name,
		ValueType: t.valueType,
		Default:   t.defaultValue,
		Disabled:  t.IsDisabled(),
		Muted:     t.IsMuted(),
	}
	keys, err := encodeKeys(t.keys, nil)
	if err != nil {
		return ct, err
	}
	ct.Keys = keys
	for _, sub := range t.SubTracks() {
		cs, err := encodeTrack(sub)
		if err != nil {
			return ct, err
		}
		ct.SubTracks = append(ct.SubTracks, cs)
	}
	return ct, nil
}

func (ct clipTrack) paramType() ParamType {
	return ParamType{Type: ct.Param, Name: ct.Property}
}

// --- Copy ---

// CopyKeysToClipboard builds a keys document of the whole sequence. Compound
// tracks contribute their sub-tracks. Tracks without copied keys are left
// out.
func (s *Sequence) CopyKeysToClipboard(onlySelectedKeys, onlyFromSelectedTracks bool) (*ClipboardDocument, error) {
	doc := &ClipboardDocument{Kind: ClipboardKeys}
	for _, c := range s.children {
		if a := asAnimNode(c); a != nil {
			cn, ok, err := a.copyKeys(onlySelectedKeys, onlyFromSelectedTracks)
			if err != nil {
				return nil, err
			}
			if ok {
				doc.Nodes = append(doc.Nodes, cn)
			}
		}
	}
	return doc, nil
}

func (n *AnimNode) copyKeys(onlySelectedKeys, onlyFromSelectedTracks bool) (clipNode, bool, error) {
	cn := clipNode{Name: n.name, Type: n.nodeType.String()}
	var copyTrack func(t *Track) error
	copyTrack = func(t *Track) error {
		if onlyFromSelectedTracks && !t.selected && !(t.IsSubTrack() && t.parent.IsSelected()) {
			return nil
		}
		if t.IsCompound() {
			for _, sub := range t.SubTracks() {
				if err := copyTrack(sub); err != nil {
					return err
				}
			}
			return nil
		}
		keys, err := encodeKeys(t.keys, func(k *Key) bool { return !onlySelectedKeys || k.Selected })
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		cn.Tracks = append(cn.Tracks, clipTrack{
			Name: t.name, Param: t.param.Type, Property: t.param.Name, ValueType: t.valueType, Keys: keys,
		})
		return nil
	}
	for _, c := range n.children {
		switch v := c.(type) {
		case *Track:
			if err := copyTrack(v); err != nil {
				return cn, false, err
			}
		case *AnimNode:
			sub, ok, err := v.copyKeys(onlySelectedKeys, onlyFromSelectedTracks)
			if err != nil {
				return cn, false, err
			}
			if ok {
				cn.Nodes = append(cn.Nodes, sub)
			}
		}
	}
	return cn, len(cn.Tracks) > 0 || len(cn.Nodes) > 0, nil
}

// CopyNodesToClipboard builds a nodes document of every top-level anim node,
// or of the selected ones. Selected nodes below a selected ancestor are
// copied once, as part of the ancestor.
func (s *Sequence) CopyNodesToClipboard(onlySelected bool) (*ClipboardDocument, error) {
	doc := &ClipboardDocument{Kind: ClipboardNodes}
	var nodes []*AnimNode
	if onlySelected {
		for _, a := range s.SelectedAnimNodes().Nodes() {
			if !hasSelectedAncestor(a) {
				nodes = append(nodes, a)
			}
		}
	} else {
		for _, c := range s.children {
			if a := asAnimNode(c); a != nil {
				nodes = append(nodes, a)
			}
		}
	}
	for _, a := range nodes {
		cn, err := a.encodeNode()
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, cn)
	}
	return doc, nil
}

func hasSelectedAncestor(a *AnimNode) bool {
	for p := a.parent; p != nil; p = p.Parent() {
		if p.Kind() == KindAnimNode && p.IsSelected() {
			return true
		}
	}
	return false
}

func (n *AnimNode) encodeNode() (clipNode, error) {
	cn := clipNode{
		Name:     n.name,
		Type:     n.nodeType.String(),
		Disabled: n.IsDisabled() && n.CanBeEnabled(),
		Hidden:   n.hidden,
	}
	if n.entityID != uuid.Nil && n.nodeType == AnimNodeEntity {
		cn.Entity = n.entityID.String()
	}
	if n.nodeType == AnimNodeComponent {
		cn.Component = &clipComponent{
			ID:         n.component.ID,
			Type:       n.component.TypeName,
			Properties: slices.Clone(n.component.Properties),
		}
	}
	for _, c := range n.children {
		switch v := c.(type) {
		case *Track:
			ct, err := encodeTrack(v)
			if err != nil {
				return cn, err
			}
			cn.Tracks = append(cn.Tracks, ct)
		case *AnimNode:
			sub, err := v.encodeNode()
			if err != nil {
				return cn, err
			}
			cn.Nodes = append(cn.Nodes, sub)
		}
	}
	return cn, nil
}

// --- Decoding ---

// pastedTrack and pastedNode are fully decoded and validated document parts.
type pastedTrack struct {
	name     string
	param    ParamType
	vt       ValueType
	def      float64
	disabled bool
	muted    bool
	keys     []Key
	subs     []pastedTrack
}

type pastedNode struct {
	name     string
	nodeType AnimNodeType
	entity   uuid.UUID
	comp     *ComponentInfo
	disabled bool
	hidden   bool
	tracks   []pastedTrack
	nodes    []pastedNode
}

func decodeTrack(ct clipTrack) (pastedTrack, error) {
	keys, err := decodeKeys(ct.Keys)
	if err != nil {
		return pastedTrack{}, err
	}
	pt := pastedTrack{
		name: ct.Name, param: ct.paramType(), vt: ct.ValueType, def: ct.Default,
		disabled: ct.Disabled, muted: ct.Muted, keys: keys,
	}
	for _, k := range keys {
		if !valueFits(pt.vt, k.Value) {
			return pt, fmt.Errorf("%w: %s key on %s track %q", ErrMalformedClipboard, valueKindName(k.Value), pt.vt, pt.name)
		}
	}
	for _, cs := range ct.SubTracks {
		sub, err := decodeTrack(cs)
		if err != nil {
			return pt, err
		}
		pt.subs = append(pt.subs, sub)
	}
	return pt, nil
}

func decodeNode(cn clipNode) (pastedNode, error) {
	pn := pastedNode{name: cn.Name, nodeType: ParseAnimNodeType(cn.Type), disabled: cn.Disabled, hidden: cn.Hidden}
	if pn.nodeType == AnimNodeInvalid {
		return pn, fmt.Errorf("%w: node %q has unknown type %q", ErrMalformedClipboard, cn.Name, cn.Type)
	}
	if cn.Entity != "" {
		id, err := uuid.Parse(cn.Entity)
		if err != nil {
			return pn, fmt.Errorf("%w: node %q: %v", ErrMalformedClipboard, cn.Name, err)
		}
		pn.entity = id
	}
	if cn.Component != nil {
		pn.comp = &ComponentInfo{
			ID: cn.Component.ID, TypeName: cn.Component.Type,
			Properties: cn.Component.Properties, Animatable: true,
		}
	}
	for _, ct := range cn.Tracks {
		pt, err := decodeTrack(ct)
		if err != nil {
			return pn, err
		}
		pn.tracks = append(pn.tracks, pt)
	}
	for _, sub := range cn.Nodes {
		ps, err := decodeNode(sub)
		if err != nil {
			return pn, err
		}
		pn.nodes = append(pn.nodes, ps)
	}
	return pn, nil
}

func decodeDocument(doc *ClipboardDocument, kind string) ([]pastedNode, error) {
	if doc == nil || doc.Kind != kind {
		return nil, fmt.Errorf("%w: expected a %s document", ErrMalformedClipboard, kind)
	}
	nodes := make([]pastedNode, 0, len(doc.Nodes))
	for _, cn := range doc.Nodes {
		pn, err := decodeNode(cn)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, pn)
	}
	return nodes, nil
}

func countTracks(nodes []pastedNode) int {
	n := 0
	for _, pn := range nodes {
		n += len(pn.tracks) + countTracks(pn.nodes)
	}
	return n
}

// --- Paste keys ---

// PasteKeysFromClipboard pastes a keys document with every key time shifted
// by offset. Targets resolve in order: a single source track pastes into
// track when the value types match; a single source node pastes into node,
// matching tracks by parameter and value type and preferring equal names;
// otherwise nodes match the sequence tree by name and type and tracks by name
// and parameter. Unmatched content is dropped. The pasted keys become the key
// selection.
func (s *Sequence) PasteKeysFromClipboard(doc *ClipboardDocument, node *AnimNode, track *Track, offset float64) error {
	nodes, err := decodeDocument(doc, ClipboardKeys)
	if err != nil {
		return err
	}

	type target struct {
		track *Track
		keys  []Key
	}
	var targets []target
	switch {
	case track != nil && countTracks(nodes) == 1:
		src := firstTrack(nodes)
		if src.vt == track.valueType && !track.IsCompound() {
			targets = append(targets, target{track, src.keys})
		}
	case node != nil && len(nodes) == 1 && len(nodes[0].nodes) == 0:
		used := map[*Track]bool{}
		candidates := leafTracks(node)
		for _, src := range nodes[0].tracks {
			if t := matchTrack(candidates, used, src); t != nil {
				used[t] = true
				targets = append(targets, target{t, src.keys})
			}
		}
	default:
		var walk func(dst *AnimNode, src []pastedNode)
		walk = func(dst *AnimNode, src []pastedNode) {
			for _, pn := range src {
				a := childByNameAndType(dst, pn.name, pn.nodeType)
				if a == nil {
					continue
				}
				for _, pt := range pn.tracks {
					if t := trackByNameAndParam(a, pt.name, pt.param); t != nil && t.valueType == pt.vt {
						targets = append(targets, target{t, pt.keys})
					}
				}
				walk(a, pn.nodes)
			}
		}
		walk(&s.AnimNode, nodes)
	}

	batch := s.BeginNotifications()
	defer batch.End()
	s.DeselectAllKeys()
	for _, tg := range targets {
		tg.track.pasteKeys(tg.keys, offset)
	}
	return nil
}

func firstTrack(nodes []pastedNode) pastedTrack {
	for _, pn := range nodes {
		if len(pn.tracks) > 0 {
			return pn.tracks[0]
		}
		if countTracks(pn.nodes) > 0 {
			return firstTrack(pn.nodes)
		}
	}
	return pastedTrack{}
}

// leafTracks returns the key-holding tracks of n: plain tracks and the
// sub-tracks of compound ones.
func leafTracks(n *AnimNode) []*Track {
	var out []*Track
	for _, c := range n.children {
		t, ok := c.(*Track)
		if !ok {
			continue
		}
		if t.IsCompound() {
			out = append(out, t.SubTracks()...)
		} else {
			out = append(out, t)
		}
	}
	return out
}

func matchTrack(candidates []*Track, used map[*Track]bool, src pastedTrack) *Track {
	for _, t := range candidates {
		if !used[t] && t.param == src.param && t.valueType == src.vt && t.name == src.name {
			return t
		}
	}
	for _, t := range candidates {
		if !used[t] && t.param == src.param && t.valueType == src.vt {
			return t
		}
	}
	for _, t := range candidates {
		if !used[t] && t.valueType == src.vt {
			return t
		}
	}
	return nil
}

func childByNameAndType(n *AnimNode, name string, t AnimNodeType) *AnimNode {
	for _, c := range n.children {
		if a := asAnimNode(c); a != nil && a.name == name && a.nodeType == t {
			return a
		}
	}
	return nil
}

func trackByNameAndParam(n *AnimNode, name string, p ParamType) *Track {
	for _, t := range leafTracks(n) {
		if t.name == name && t.param == p {
			return t
		}
	}
	return nil
}

// pasteKeys inserts selected copies of keys shifted by offset.
func (t *Track) pasteKeys(keys []Key, offset float64) {
	if len(keys) == 0 {
		return
	}
	seq := t.Sequence()
	for _, k := range keys {
		k.Time += offset
		k.Selected = true
		k.sortMarker = false
		i := t.insertKey(k)
		seq.OnKeyAdded(KeyHandle{track: t, index: i})
	}
	seq.OnKeySelectionChanged()
	seq.OnKeysChanged()
}

// --- Paste nodes ---

// PasteNodesFromClipboard recreates the nodes of a nodes document below
// target, or below the sequence root when target is nil. Nodes whose name is
// already taken in the target scope are skipped with a user message.
func (s *Sequence) PasteNodesFromClipboard(doc *ClipboardDocument, target *AnimNode) error {
	nodes, err := decodeDocument(doc, ClipboardNodes)
	if err != nil {
		return err
	}
	if target == nil {
		target = &s.AnimNode
	}
	if !target.IsGroupNode() {
		return fmt.Errorf("trackview: paste target %q cannot contain nodes", target.name)
	}
	batch := s.BeginNotifications()
	defer batch.End()
	for _, pn := range nodes {
		target.pasteNode(pn)
	}
	return nil
}

func (n *AnimNode) pasteNode(pn pastedNode) *AnimNode {
	var a *AnimNode
	if pn.nodeType == AnimNodeComponent {
		if pn.comp == nil || n.nodeType != AnimNodeEntity {
			return nil
		}
		a = n.componentNode(pn.comp.ID)
		if a == nil {
			a = n.AddComponent(*pn.comp)
		}
	} else {
		a = n.CreateSubNode(pn.name, pn.nodeType, pn.entity)
	}
	if a == nil {
		return nil
	}
	for _, pt := range pn.tracks {
		a.pasteTrack(pt)
	}
	for _, sub := range pn.nodes {
		a.pasteNode(sub)
	}
	if pn.disabled {
		a.SetDisabled(true)
	}
	if pn.hidden {
		a.SetHidden(true)
	}
	return a
}

func (n *AnimNode) componentNode(id uint64) *AnimNode {
	for _, c := range n.children {
		if a := asAnimNode(c); a != nil && a.nodeType == AnimNodeComponent && a.component.ID == id {
			return a
		}
	}
	return nil
}

func (n *AnimNode) pasteTrack(pt pastedTrack) {
	t := n.directTrack(pt.param, 0)
	if t == nil || t.valueType != pt.vt {
		if t = n.CreateTrack(pt.param); t == nil {
			return
		}
	}
	t.applyPasted(pt)
}

func (t *Track) applyPasted(pt pastedTrack) {
	t.defaultValue = pt.def
	t.SetDisabled(pt.disabled)
	t.SetMuted(pt.muted)
	if !t.IsCompound() {
		keys := slices.Clone(pt.keys)
		for i := range keys {
			keys[i].Selected = false
		}
		t.replaceKeys(keys)
	}
	subs := t.SubTracks()
	for i := range pt.subs {
		if i < len(subs) {
			subs[i].applyPasted(pt.subs[i])
		}
	}
}

// replaceKeys swaps the whole key list.
func (t *Track) replaceKeys(keys []Key) {
	t.keys = keys
	t.sortKeys()
	t.Sequence().OnKeysChanged()
}

// --- Clipboard collaborators ---

// Clipboard stores clipboard documents as text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// MemoryClipboard is an in-process Clipboard.
type MemoryClipboard struct {
	text string
}

func (c *MemoryClipboard) ReadText() (string, error) { return c.text, nil }

func (c *MemoryClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

// SystemClipboard uses the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) WriteText(text string) error { return clipboard.WriteAll(text) }

// WriteDocument encodes doc and stores it on cb.
func WriteDocument(cb Clipboard, doc *ClipboardDocument) error {
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("trackview: encode clipboard: %w", err)
	}
	return cb.WriteText(string(data))
}

// ReadDocument reads and parses the document stored on cb.
func ReadDocument(cb Clipboard) (*ClipboardDocument, error) {
	text, err := cb.ReadText()
	if err != nil {
		return nil, fmt.Errorf("trackview: read clipboard: %w", err)
	}
	return ParseClipboardDocument([]byte(text))
}
