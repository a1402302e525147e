package generator

import (
	"testing"

	"wwtxtp/internal/config"
	"wwtxtp/internal/render"
	"wwtxtp/internal/testsupport"
)

func TestFilterMatchesIDNameAndType(t *testing.T) {
	f := NewFilter(config.Filter{
		IDs:   []uint32{100},
		Names: []string{"Play_Music"},
		Types: []string{"event"},
	})

	byID := testsupport.Obj("Sound", testsupport.SID(100, "")).Node()
	if !f.Allowed(byID) {
		t.Fatal("expected id match")
	}
	byName := testsupport.Obj("Sound", testsupport.SID(7, "play_music")).Node()
	if !f.Allowed(byName) {
		t.Fatal("expected case-insensitive name match")
	}
	byType := testsupport.Obj("Event", testsupport.SID(8, "other")).Node()
	if !f.Allowed(byType) {
		t.Fatal("expected type match")
	}
	miss := testsupport.Obj("Sound", testsupport.SID(9, "other")).Node()
	if f.Allowed(miss) {
		t.Fatal("expected non-matching node rejected")
	}
}

func TestEmptyFilterAllowsEverything(t *testing.T) {
	f := NewFilter(config.Filter{})
	if !f.Empty() {
		t.Fatal("expected empty filter")
	}
	node := testsupport.Obj("Sound", testsupport.SID(9, "")).Node()
	if !f.Allowed(node) {
		t.Fatal("empty filter must allow everything")
	}
}

func TestFNVIDMatchesAuthoredHashes(t *testing.T) {
	// reference values from the authoring tool's name hashing
	cases := map[string]uint32{
		"bgm":     412724365,
		"silence": 3041563226,
	}
	for name, want := range cases {
		if got := fnvID(name); got != want {
			t.Fatalf("fnvID(%q) = %d, want %d", name, got, want)
		}
	}
	if fnvID("BGM") != fnvID("bgm") {
		t.Fatal("hashing must lowercase first")
	}
}

func TestParseSelectorDefaultsPinsBothKinds(t *testing.T) {
	combo, err := parseSelectorDefaults([]string{"music=combat", "123=456"})
	if err != nil {
		t.Fatalf("parseSelectorDefaults returned error: %v", err)
	}
	if len(combo) != 4 {
		t.Fatalf("expected 2 pins under both kinds, got %d entries", len(combo))
	}
	if combo[0].Kind != render.SelectorState || combo[1].Kind != render.SelectorSwitch {
		t.Fatalf("unexpected kinds: %+v", combo[:2])
	}
	if combo[0].Group != fnvID("music") || combo[0].Value != fnvID("combat") {
		t.Fatalf("expected hashed names, got %+v", combo[0])
	}
	if combo[2].Group != 123 || combo[2].Value != 456 {
		t.Fatalf("expected raw ids passed through, got %+v", combo[2])
	}
}

func TestParseParamDefaults(t *testing.T) {
	combo, err := parseParamDefaults([]string{"intensity=50.5"})
	if err != nil {
		t.Fatalf("parseParamDefaults returned error: %v", err)
	}
	if len(combo) != 1 || combo[0].Value != 50.5 || combo[0].Name != "intensity" {
		t.Fatalf("unexpected combo: %+v", combo)
	}

	if _, err := parseParamDefaults([]string{"broken"}); err == nil {
		t.Fatal("expected error for malformed entry")
	}
	if _, err := parseParamDefaults([]string{"x=notanumber"}); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}
