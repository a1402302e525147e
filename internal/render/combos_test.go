package render_test

import (
	"testing"

	"wwtxtp/internal/bank"
	"wwtxtp/internal/render"
)

func TestSelectorPathsCombosCartesianInDiscoveryOrder(t *testing.T) {
	p := render.NewSelectorPaths()
	p.Add(render.SelectorState, 1, "g1", 10, "a")
	p.Add(render.SelectorState, 1, "g1", 11, "b")
	p.Add(render.SelectorSwitch, 2, "g2", 20, "c")
	p.Add(render.SelectorState, 1, "g1", 10, "a") // repeat is dropped

	combos := p.Combos()
	if len(combos) != 2 {
		t.Fatalf("expected 2 combos, got %d", len(combos))
	}
	first := combos[0]
	if len(first) != 2 || first[0].ValueName != "a" || first[1].ValueName != "c" {
		t.Fatalf("unexpected first combo: %+v", first)
	}
	if combos[1][0].ValueName != "b" {
		t.Fatalf("unexpected second combo: %+v", combos[1])
	}
}

func TestChunkPathsFilterTagsSelectorConflicts(t *testing.T) {
	p := render.NewChunkPaths()
	p.Add(1, "g", 10, "x")
	p.Add(1, "g", 11, "y")
	p.Add(2, "h", 30, "z")

	sel := render.NewSelectorParams()
	sel.Apply(render.SelectorCombo{
		{Kind: render.SelectorState, Group: 1, Value: 10, ValueName: "x"},
	})
	p.Filter(sel)

	combos := p.Combos()
	if combos[0].Unreachable {
		t.Fatal("matching chunk must stay reachable")
	}
	if !combos[1].Unreachable {
		t.Fatal("conflicting chunk must be unreachable")
	}
	if combos[2].Unreachable {
		t.Fatal("chunks in unpinned groups must stay reachable")
	}
	if !p.HasUnreachables() {
		t.Fatal("expected unreachable chunks to be reported")
	}
}

func TestChunkPathsSwitchSelectorsDoNotPinChunks(t *testing.T) {
	p := render.NewChunkPaths()
	p.Add(1, "g", 10, "x")

	sel := render.NewSelectorParams()
	sel.Apply(render.SelectorCombo{
		{Kind: render.SelectorSwitch, Group: 1, Value: 99, ValueName: "other"},
	})
	p.Filter(sel)

	if p.Combos()[0].Unreachable {
		t.Fatal("switch assignments must not make chunks unreachable")
	}
}

func TestChunkPathsNoneStateRequestsDefaultOnly(t *testing.T) {
	p := render.NewChunkPaths()
	p.Add(1, "g", 0, "")
	if !p.Empty() {
		t.Fatal("none state must not contribute a combo")
	}
	if p.GenerateDefault(p.Combos()) {
		t.Fatal("default pass needs at least one reachable combo")
	}

	p.Add(1, "g", 10, "x")
	p.Filter(render.NewSelectorParams())
	if !p.GenerateDefault(p.Combos()) {
		t.Fatal("expected default pass with a reachable combo present")
	}
}

func TestParamPathsCombosCartesian(t *testing.T) {
	p := render.NewParamPaths()
	p.Add(1, "intensity", 0, 100)
	p.Add(2, "distance", 5)

	combos := p.Combos()
	if len(combos) != 2 {
		t.Fatalf("expected 2 combos, got %d", len(combos))
	}
	if combos[0][0].Value != 0 || combos[0][1].Value != 5 {
		t.Fatalf("unexpected first combo: %+v", combos[0])
	}
	if combos[1][0].Value != 100 {
		t.Fatalf("unexpected second combo: %+v", combos[1])
	}
}

func TestStateSecondariesDedupeByKindAndRef(t *testing.T) {
	ws := render.NewState()
	ref := bank.Ref{BankID: 1, ID: 500}
	ws.AddStinger(ref, "sting")
	ws.AddStinger(ref, "sting")
	ws.AddTransition(ref, "trans")

	got := ws.Secondaries()
	if len(got) != 2 {
		t.Fatalf("expected 2 secondaries, got %d", len(got))
	}
	if got[0].Kind != render.SecondaryStinger || got[1].Kind != render.SecondaryTransition {
		t.Fatalf("unexpected kinds: %+v", got)
	}
}

func TestStatePinnedDefaultsOverrideDiscovery(t *testing.T) {
	ws := render.NewState()
	ws.SetSelectorDefaults(render.SelectorCombo{
		{Kind: render.SelectorState, Group: 1, Value: 10, ValueName: "pinned"},
	})
	ws.ReportSelector(render.SelectorState, 1, "g", 11, "discovered")

	combos := ws.SelectorCombos()
	if len(combos) != 1 || combos[0][0].ValueName != "pinned" {
		t.Fatalf("expected pinned combo only, got %+v", combos)
	}
}
