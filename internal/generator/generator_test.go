package generator_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"wwtxtp/internal/generator"
	"wwtxtp/internal/testsupport"
	"wwtxtp/internal/txtp"
)

func writeFixtureBank(t *testing.T, dir string) {
	t.Helper()
	testsupport.WriteBankDump(t, dir, 1, "main.bnk",
		testsupport.Obj("Event", testsupport.SID(100, "play_adventure"),
			testsupport.Field("actionID", 200)),
		testsupport.Obj("Action", testsupport.SID(200, ""),
			testsupport.Field("actionType", 4),
			testsupport.Field("idExt", 300)),
		testsupport.Obj("Sound", testsupport.SID(300, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 500,
				Attrs: map[string]string{"guidname": "adventure_theme"}}),
		// never referenced by anything
		testsupport.Obj("Sound", testsupport.SID(301, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 501,
				Attrs: map[string]string{"guidname": "orphan"}}),
	)
}

func TestRunGeneratesArtifactsAndUnusedPass(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dumps := t.TempDir()
	writeFixtureBank(t, dumps)

	gen := generator.New(cfg, nil)
	summary, err := gen.Run(context.Background(), []string{dumps})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Banks != 1 {
		t.Fatalf("expected 1 bank, got %d", summary.Banks)
	}
	if summary.Stats.Created != 2 || summary.Stats.Unused != 1 {
		t.Fatalf("unexpected stats: %+v", summary.Stats)
	}

	entries, err := os.ReadDir(cfg.Paths.OutDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	foundEvent, foundUnused := false, false
	for _, name := range names {
		if strings.HasPrefix(name, "play_adventure") {
			foundEvent = true
		}
		if strings.Contains(name, "{unused}") {
			foundUnused = true
		}
	}
	if !foundEvent || !foundUnused {
		t.Fatalf("expected event and unused artifacts, got %v", names)
	}
}

func TestRunOrdersCandidatesWithinEachBank(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dumps := t.TempDir()
	testsupport.WriteBankDump(t, dumps, 1, "first.bnk",
		testsupport.Obj("Event", testsupport.SID(100, "zebra"),
			testsupport.Field("actionID", 200)),
		testsupport.Obj("Action", testsupport.SID(200, ""),
			testsupport.Field("actionType", 4),
			testsupport.Field("idExt", 300)),
		testsupport.Obj("Sound", testsupport.SID(300, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 500,
				Attrs: map[string]string{"guidname": "zebra_theme"}}),
	)
	testsupport.WriteBankDump(t, dumps, 2, "second.bnk",
		testsupport.Obj("Event", testsupport.SID(110, "alpha"),
			testsupport.Field("actionID", 210)),
		testsupport.Obj("Action", testsupport.SID(210, ""),
			testsupport.Field("actionType", 4),
			testsupport.Field("idExt", 310)),
		testsupport.Obj("Sound", testsupport.SID(310, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 510,
				Attrs: map[string]string{"guidname": "alpha_theme"}}),
	)

	gen := generator.New(cfg, nil)
	if _, err := gen.Run(context.Background(), []string{dumps}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	ix, err := txtp.OpenIndex(cfg.IndexPath())
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer ix.Close()
	names, err := ix.Names(context.Background())
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}
	// the name sort applies within one bank; across banks load order
	// wins, so the first bank's event emits before the second's
	if len(names) != 2 || names[0] != "zebra" || names[1] != "alpha" {
		t.Fatalf("unexpected emission order: %v", names)
	}
}

func TestRunSkipsAnonymousRootItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dumps := t.TempDir()
	testsupport.WriteBankDump(t, dumps, 1, "main.bnk",
		testsupport.Obj("Event", testsupport.SID(100, "play_adventure"),
			testsupport.Field("actionID", 200)),
		testsupport.Obj("Action", testsupport.SID(200, ""),
			testsupport.Field("actionType", 4),
			testsupport.Field("idExt", 300)),
		testsupport.Obj("Sound", testsupport.SID(300, ""),
			testsupport.NodeSpec{Name: "sourceID", Value: 500,
				Attrs: map[string]string{"guidname": "adventure_theme"}}),
		// event with no short id at all
		testsupport.NodeSpec{Name: "Event", Children: []testsupport.NodeSpec{
			testsupport.Field("actionID", 200),
		}},
	)

	gen := generator.New(cfg, nil)
	summary, err := gen.Run(context.Background(), []string{dumps})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Stats.Created != 1 {
		t.Fatalf("expected only the named event to render, got %+v", summary.Stats)
	}

	entries, err := os.ReadDir(cfg.Paths.OutDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "0") {
			t.Fatalf("anonymous item rendered as %q", e.Name())
		}
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun())
	dumps := t.TempDir()
	writeFixtureBank(t, dumps)

	gen := generator.New(cfg, nil)
	summary, err := gen.Run(context.Background(), []string{dumps})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Stats.Created == 0 {
		t.Fatalf("expected dry run to still count artifacts: %+v", summary.Stats)
	}

	entries, err := os.ReadDir(cfg.Paths.OutDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	files := 0
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".txtp") {
			files++
		}
	}
	if files != 0 {
		t.Fatalf("dry run must not write artifact files, found %d", files)
	}
}

func TestRunRerunSuppressesDuplicatesViaIndex(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dumps := t.TempDir()
	writeFixtureBank(t, dumps)

	gen := generator.New(cfg, nil)
	first, err := gen.Run(context.Background(), []string{dumps})
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	second, err := gen.Run(context.Background(), []string{dumps})
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if second.Stats.Created != 0 {
		t.Fatalf("expected rerun to create nothing, got %+v", second.Stats)
	}
	if second.Stats.Duplicates != first.Stats.Created {
		t.Fatalf("expected every artifact suppressed, got %+v", second.Stats)
	}
}

func TestRunFailsWithoutBankDumps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	gen := generator.New(cfg, nil)
	if _, err := gen.Run(context.Background(), []string{t.TempDir()}); err == nil {
		t.Fatal("expected error for empty dump directory")
	}
}
