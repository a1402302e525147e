package hirc_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"wwtxtp/internal/bank"
	"wwtxtp/internal/hirc"
	"wwtxtp/internal/registry"
	"wwtxtp/internal/render"
	"wwtxtp/internal/testsupport"
	"wwtxtp/internal/txtp"
)

type harness struct {
	reg    *registry.Registry
	ws     *render.State
	cache  *txtp.Cache
	engine *render.Engine
}

func newHarness(t *testing.T, banks ...*bank.Bank) *harness {
	t.Helper()
	bank.NewSet(banks...)

	reg := registry.New(hirc.Table(), nil)
	for _, b := range banks {
		reg.AddLoadedBank(b.ID, b.Filename)
		for _, item := range b.Items {
			if sid, ok := item.ShortID(); ok {
				reg.Register(b.ID, sid, item)
			}
		}
	}

	ws := render.NewState()
	cache := txtp.NewCache(nil)
	cache.OutDir = t.TempDir()
	walker := hirc.NewWalker(reg, ws, nil)
	return &harness{
		reg:    reg,
		ws:     ws,
		cache:  cache,
		engine: render.NewEngine(ws, walker, cache, nil),
	}
}

func playChain(target uint32) []testsupport.NodeSpec {
	return []testsupport.NodeSpec{
		testsupport.Obj("Event", testsupport.SID(100, "play_adventure"),
			testsupport.Field("actionID", 200)),
		testsupport.Obj("Action", testsupport.SID(200, ""),
			testsupport.Field("actionType", 4),
			testsupport.Field("idExt", int64(target))),
	}
}

func sound(id, sourceID uint32, sourceName string) testsupport.NodeSpec {
	return testsupport.Obj("Sound", testsupport.SID(id, ""),
		testsupport.NodeSpec{
			Name:  "sourceID",
			Value: int64(sourceID),
			Attrs: map[string]string{bank.AttrGUIDName: sourceName},
		})
}

func TestEventActionSoundChain(t *testing.T) {
	items := append(playChain(300), sound(300, 500, "adventure_theme"))
	h := newHarness(t, testsupport.NewBank(1, "main.bnk", items...))

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	if h.cache.Stats.Created != 1 {
		t.Fatalf("expected 1 artifact, got %+v", h.cache.Stats)
	}
}

func TestNonPlayActionRendersNothing(t *testing.T) {
	items := []testsupport.NodeSpec{
		testsupport.Obj("Event", testsupport.SID(100, "stop_all"),
			testsupport.Field("actionID", 200)),
		testsupport.Obj("Action", testsupport.SID(200, ""),
			testsupport.Field("actionType", 1), // stop
			testsupport.Field("idExt", 300)),
		sound(300, 500, "theme"),
	}
	h := newHarness(t, testsupport.NewBank(1, "main.bnk", items...))

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	if h.cache.Stats.Created != 0 || h.cache.Stats.Silent == 0 {
		t.Fatalf("expected a silent pass, got %+v", h.cache.Stats)
	}
}

func switchContainer(id uint32, groupType int64) testsupport.NodeSpec {
	return testsupport.Obj("SwitchContainer", testsupport.SID(id, ""),
		testsupport.NamedField("groupID", 1000, "music"),
		testsupport.Field("groupType", groupType),
		testsupport.Field("switchItem", 0,
			testsupport.NamedField("switchID", 1, "explore"),
			testsupport.Field("nodeID", 400)),
		testsupport.Field("switchItem", 0,
			testsupport.NamedField("switchID", 2, "combat"),
			testsupport.Field("nodeID", 401)),
	)
}

func TestSwitchContainerEnumeratesStateValues(t *testing.T) {
	items := append(playChain(300),
		switchContainer(300, 1),
		sound(400, 500, "explore_theme"),
		sound(401, 501, "combat_theme"),
	)
	h := newHarness(t, testsupport.NewBank(1, "main.bnk", items...))

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	if h.cache.Stats.Created != 2 {
		t.Fatalf("expected one artifact per state value, got %+v", h.cache.Stats)
	}
}

func TestCrossBankActionReference(t *testing.T) {
	main := testsupport.NewBank(1, "main.bnk",
		testsupport.Obj("Event", testsupport.SID(100, "play_remote"),
			testsupport.Field("actionID", 200)),
		testsupport.Obj("Action", testsupport.SID(200, ""),
			testsupport.Field("actionType", 4),
			testsupport.Field("idExt", 300),
			testsupport.NamedField("bankID", 2, "extra")),
	)
	extra := testsupport.NewBank(2, "extra.bnk", sound(300, 500, "remote_theme"))
	h := newHarness(t, main, extra)

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	if h.cache.Stats.Created != 1 {
		t.Fatalf("expected 1 artifact, got %+v", h.cache.Stats)
	}
}

func TestMissingCrossBankReferenceIsBucketedNotFatal(t *testing.T) {
	main := testsupport.NewBank(1, "main.bnk",
		testsupport.Obj("Event", testsupport.SID(100, "play_remote"),
			testsupport.Field("actionID", 200)),
		testsupport.Obj("Action", testsupport.SID(200, ""),
			testsupport.Field("actionType", 4),
			testsupport.Field("idExt", 300),
			testsupport.NamedField("bankID", 9, "never_loaded")),
	)
	h := newHarness(t, main)

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	if h.reg.MissingOthersCount() != 1 {
		t.Fatalf("expected one other-bank miss, got %d", h.reg.MissingOthersCount())
	}
	banks := h.reg.MissingBankNames()
	if len(banks) != 1 || banks[0] != "never_loaded" {
		t.Fatalf("unexpected missing banks: %v", banks)
	}
}

func TestMusicSegmentStingerBecomesSecondary(t *testing.T) {
	items := append(playChain(300),
		testsupport.Obj("MusicSegment", testsupport.SID(300, "main_theme"),
			testsupport.Field("childID", 310),
			testsupport.Field("stinger", 0,
				testsupport.Field("triggerID", 77),
				testsupport.NamedField("segmentID", 320, "hit"))),
		testsupport.Obj("MusicTrack", testsupport.SID(310, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 600,
				Attrs: map[string]string{bank.AttrGUIDName: "main_loop"}}),
		testsupport.Obj("MusicSegment", testsupport.SID(320, "hit"),
			testsupport.Field("childID", 321)),
		testsupport.Obj("MusicTrack", testsupport.SID(321, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 601,
				Attrs: map[string]string{bank.AttrGUIDName: "hit_hit"}}),
	)
	h := newHarness(t, testsupport.NewBank(1, "main.bnk", items...))

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	if h.cache.Stats.Created != 2 || h.cache.Stats.Secondary != 1 {
		t.Fatalf("unexpected stats: %+v", h.cache.Stats)
	}

	// the stinger target must count as used
	for _, typeName := range h.reg.UnusedTypes() {
		for _, node := range h.reg.ListUnused(typeName) {
			if sid, _ := node.ShortID(); sid == 320 {
				t.Fatal("stinger target must be marked used")
			}
		}
	}
}

func TestSwitchContainerWithoutGroupTypeIsSwitchKind(t *testing.T) {
	items := append(playChain(300),
		testsupport.Obj("SwitchContainer", testsupport.SID(300, ""),
			testsupport.NamedField("groupID", 1000, "music"),
			testsupport.Field("switchItem", 0,
				testsupport.NamedField("switchID", 1, "explore"),
				testsupport.Field("nodeID", 400))),
		sound(400, 500, "explore_theme"),
	)
	h := newHarness(t, testsupport.NewBank(1, "main.bnk", items...))

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	if h.cache.Stats.Created != 1 {
		t.Fatalf("expected 1 artifact, got %+v", h.cache.Stats)
	}

	entries, err := os.ReadDir(h.cache.OutDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	// switch assignments take square brackets, states parentheses
	found := false
	for _, e := range entries {
		if strings.Contains(e.Name(), "[music=explore]") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a switch-bracketed artifact name, got %v", entries)
	}
}

func TestMusicSwitchStateChunksRenderPerState(t *testing.T) {
	items := append(playChain(300),
		testsupport.Obj("MusicSwitchContainer", testsupport.SID(300, ""),
			testsupport.NamedField("groupID", 1000, "music"),
			testsupport.Field("groupType", 1),
			testsupport.Field("switchItem", 0,
				testsupport.NamedField("switchID", 1, "explore"),
				testsupport.Field("nodeID", 400)),
			testsupport.Field("stateChunk", 0,
				testsupport.NamedField("stateGroup", 2000, "mode",
					testsupport.Field("state", 0,
						testsupport.NamedField("stateID", 5, "night"))))),
		testsupport.Obj("MusicSegment", testsupport.SID(400, ""),
			testsupport.Field("childID", 410)),
		testsupport.Obj("MusicTrack", testsupport.SID(410, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 600,
				Attrs: map[string]string{bank.AttrGUIDName: "explore_loop"}}),
	)
	h := newHarness(t, testsupport.NewBank(1, "main.bnk", items...))

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	// one selector value, one chunk value: a single combined artifact
	if h.cache.Stats.Created != 1 {
		t.Fatalf("unexpected stats: %+v", h.cache.Stats)
	}
}

func TestTransitionDestinationOutsidePlaylistBecomesSecondary(t *testing.T) {
	items := append(playChain(300),
		testsupport.Obj("MusicRandomSequence", testsupport.SID(300, "playlist"),
			testsupport.Field("childID", 400),
			testsupport.Field("transition", 0,
				testsupport.Field("segmentID", 500))),
		testsupport.Obj("MusicSegment", testsupport.SID(400, ""),
			testsupport.Field("childID", 410)),
		testsupport.Obj("MusicTrack", testsupport.SID(410, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 600,
				Attrs: map[string]string{bank.AttrGUIDName: "loop"}}),
		testsupport.Obj("MusicSegment", testsupport.SID(500, "filler"),
			testsupport.Field("childID", 510)),
		testsupport.Obj("MusicTrack", testsupport.SID(510, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 601,
				Attrs: map[string]string{bank.AttrGUIDName: "filler_src"}}),
	)
	h := newHarness(t, testsupport.NewBank(1, "main.bnk", items...))

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	if h.cache.Stats.Secondary != 1 {
		t.Fatalf("expected a transition secondary, got %+v", h.cache.Stats)
	}
	if h.reg.TransitionObjects() != 1 {
		t.Fatalf("expected 1 transition object, got %d", h.reg.TransitionObjects())
	}
}

func TestReferenceCycleFailsInsteadOfLooping(t *testing.T) {
	items := append(playChain(300),
		testsupport.Obj("RandomSequenceContainer", testsupport.SID(300, "loop"),
			testsupport.Field("childID", 300)),
	)
	h := newHarness(t, testsupport.NewBank(1, "main.bnk", items...))

	root := h.reg.Resolve(1, 100)
	err := h.engine.RenderRoot(context.Background(), root)
	if err == nil {
		t.Fatal("expected a depth error for self-referencing containers")
	}
	if !strings.Contains(err.Error(), "depth") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUninterpretedFieldsAreReported(t *testing.T) {
	items := append(playChain(300),
		testsupport.Obj("Sound", testsupport.SID(300, ""),
			testsupport.Field("sourceID", 500),
			testsupport.Field("weirdProp", 1)),
	)
	h := newHarness(t, testsupport.NewBank(1, "main.bnk", items...))

	root := h.reg.Resolve(1, 100)
	if err := h.engine.RenderRoot(context.Background(), root); err != nil {
		t.Fatalf("RenderRoot returned error: %v", err)
	}
	props := h.reg.UnknownProps()
	if len(props) != 1 || props[0] != "Sound.weirdProp" {
		t.Fatalf("unexpected unknown props: %v", props)
	}
}
