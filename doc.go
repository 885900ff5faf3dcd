// Package trackview is the editing model of a timeline sequencer: sequences
// of animation nodes and tracks of timed keys, bound to runtime entities and
// evaluated at a time.
//
// # Quick start
//
// A [Manager] owns the sequences of a level and resolves the nested
// sequences played by director keys. An [AnimationContext] drives one of
// them:
//
//	mgr := trackview.NewManager(trackview.DefaultConfig(), store, nil)
//	seq := mgr.CreateSequence("intro")
//	crate := seq.CreateSubNode("crate", trackview.AnimNodeEntity, entityID)
//
//	ctx := trackview.NewAnimationContext(mgr.Config())
//	ctx.SetSequence(seq) // binds and activates
//	ctx.SetTime(1.5)
//
// # Tree
//
// Every element is a [Node]: the [Sequence] root, [AnimNode] and [Track].
// Siblings are kept sorted by kind, node type or parameter, then name.
// Compound tracks (position, rotation, scale, color) hold no keys of their
// own; their X/Y/Z or R/G/B sub-tracks do.
//
// Keys are addressed by [KeyHandle], a track plus index. A handle follows
// its key through [KeyHandle.SetTime] even when the key is resorted.
//
// # Notifications
//
// Mutations report to [SequenceListener] values. Selection and key changes
// inside a [Sequence.BeginNotifications] batch are coalesced and delivered
// once when the outermost batch ends:
//
//	batch := seq.BeginNotifications()
//	defer batch.End()
//
// # Directors
//
// A director node with a Sequence track plays other sequences of the same
// [Manager] over the windows defined by its keys. Only the subtree of the
// active director takes part in binding and evaluation.
//
// Undo support is provided by [Track.Capture] and [Track.Restore]; copy and
// paste by [Sequence.CopyKeysToClipboard] and [Sequence.PasteKeysFromClipboard].
// Subpackage ecs provides a [Donburi] backed [EntityStore] and preview draws
// comment overlays with [Ebitengine].
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package trackview
