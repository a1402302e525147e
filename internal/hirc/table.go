package hirc

import "wwtxtp/internal/registry"

// Table returns the capability table for the hierarchy types this
// package understands. Registration order doubles as the unused-report
// order: outer structures first, leaves last, so an unused event is
// reported once as itself rather than as its whole subtree.
func Table() *registry.Table {
	t := registry.NewTable()
	t.Register(TypeEvent, registry.Entry{
		New:         func() registry.Object { return &event{} },
		TrackUnused: true,
	})
	t.Register(TypeMusicSwitch, registry.Entry{
		New:         func() registry.Object { return &musicSwitch{} },
		TrackUnused: true,
	})
	t.Register(TypeMusicRanSeq, registry.Entry{
		New:         func() registry.Object { return &musicRanSeq{} },
		TrackUnused: true,
	})
	t.Register(TypeMusicSegment, registry.Entry{
		New:                 func() registry.Object { return &musicSegment{} },
		TrackUnused:         true,
		SkipUnusedWhenEmpty: true,
	})
	t.Register(TypeMusicTrack, registry.Entry{
		New:         func() registry.Object { return &musicTrack{} },
		TrackUnused: true,
	})
	t.Register(TypeSwitch, registry.Entry{
		New:         func() registry.Object { return &switchContainer{} },
		TrackUnused: true,
	})
	t.Register(TypeRanSeq, registry.Entry{
		New:         func() registry.Object { return &ranSeqContainer{} },
		TrackUnused: true,
	})
	t.Register(TypeLayer, registry.Entry{
		New:         func() registry.Object { return &layerContainer{} },
		TrackUnused: true,
	})
	t.Register(TypeSound, registry.Entry{
		New:         func() registry.Object { return &sound{} },
		TrackUnused: true,
	})
	// actions only play through their event, so they never count as
	// unused on their own
	t.Register(TypeAction, registry.Entry{
		New: func() registry.Object { return &action{} },
	})
	return t
}
