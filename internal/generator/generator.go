// Package generator orchestrates one generation run: load bank dumps,
// populate the registry, render every root candidate through the
// combinatorial engine, then sweep never-used objects.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"wwtxtp/internal/bank"
	"wwtxtp/internal/config"
	"wwtxtp/internal/hirc"
	"wwtxtp/internal/logging"
	"wwtxtp/internal/registry"
	"wwtxtp/internal/render"
	"wwtxtp/internal/report"
	"wwtxtp/internal/txtp"
)

// Generator runs the soundbank to artifact pipeline.
type Generator struct {
	cfg    *config.Config
	logger *slog.Logger
	filter *Filter
}

// New builds a generator from validated configuration.
func New(cfg *config.Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "generator"),
		filter: NewFilter(cfg.Filter),
	}
}

// Run executes one generation over the given bank dump paths and
// returns the end-of-run summary.
func (g *Generator) Run(ctx context.Context, paths []string) (report.Summary, error) {
	runID := uuid.NewString()
	logger := g.logger.With(logging.String(logging.FieldRunID, runID))

	lock := flock.New(filepath.Join(g.cfg.Paths.OutDir, ".wwtxtp.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return report.Summary{}, Wrap(ErrLocked, "generator", "lock", "acquire output lock", err)
	}
	if !ok {
		return report.Summary{}, Wrap(ErrLocked, "generator", "lock", "another run is writing this directory", nil)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("failed to release output lock", logging.Error(unlockErr))
		}
	}()

	set, err := bank.LoadPaths(paths)
	if err != nil {
		return report.Summary{}, Wrap(ErrNotFound, "generator", "load", "read bank dumps", err)
	}
	if set.NodeCount() == 0 {
		return report.Summary{}, Wrap(ErrNotFound, "generator", "load", "no bank dumps found", nil)
	}

	reg := registry.New(hirc.Table(), logger)
	for _, b := range set.Banks() {
		reg.AddLoadedBank(b.ID, b.Filename)
		for _, item := range b.Items {
			if sid, ok := item.ShortID(); ok {
				reg.Register(b.ID, sid, item)
			}
		}
		logger.Debug("bank loaded",
			logging.String("file", b.Filename), logging.Int("items", len(b.Items)))
	}

	ws := render.NewState()
	if combo, err := parseSelectorDefaults(g.cfg.Defaults.Selectors); err != nil {
		return report.Summary{}, Wrap(ErrConfiguration, "generator", "defaults", "selector pins", err)
	} else if len(combo) > 0 {
		ws.SetSelectorDefaults(combo)
	}
	if combo, err := parseParamDefaults(g.cfg.Defaults.Params); err != nil {
		return report.Summary{}, Wrap(ErrConfiguration, "generator", "defaults", "param pins", err)
	} else if len(combo) > 0 {
		ws.SetParamDefaults(combo)
	}

	cache := txtp.NewCache(logger)
	cache.OutDir = g.cfg.Paths.OutDir
	cache.NameVars = g.cfg.Generate.NameVars
	cache.AllowDupes = g.cfg.Generate.AllowDupes
	cache.NoWrite = g.cfg.Generate.DryRun
	cache.Volume = g.cfg.Generate.Volume
	cache.RunID = runID

	if !g.cfg.Generate.DryRun {
		ix, err := txtp.OpenIndex(g.cfg.IndexPath())
		if err != nil {
			return report.Summary{}, Wrap(ErrConfiguration, "generator", "index", "open artifact index", err)
		}
		defer ix.Close()
		cache.SetIndex(ix)
	}

	walker := hirc.NewWalker(reg, ws, logger)
	engine := render.NewEngine(ws, walker, cache, logger)

	if err := g.renderCandidates(ctx, logger, engine, reg, set, walker.GeneratedTypes()); err != nil {
		return report.Summary{}, err
	}
	if g.cfg.Generate.GenerateUnused {
		if err := g.renderUnused(ctx, logger, engine, reg, cache); err != nil {
			return report.Summary{}, err
		}
	}

	logger.Info("generation finished",
		logging.Int("created", cache.Stats.Created),
		logging.Int("duplicates", cache.Stats.Duplicates),
		logging.Int("unused", cache.Stats.Unused))

	return report.Summary{
		Banks:    len(set.Banks()),
		Stats:    cache.Stats,
		Registry: reg,
	}, nil
}

// renderCandidates renders root objects bank by bank, banks in load
// order so artifact dedup can be tuned by reordering inputs. Within one
// bank the configured allowlist renders first, then named roots sorted
// by display name, then unnamed roots sorted by id. Bank order mode
// keeps each bank's authored item order instead.
func (g *Generator) renderCandidates(ctx context.Context, logger *slog.Logger, engine *render.Engine, reg *registry.Registry, set *bank.Set, types []string) error {
	rootTypes := make(map[string]bool, len(types))
	for _, t := range types {
		rootTypes[t] = true
	}

	totalAllowed, totalRest := 0, 0
	for _, b := range set.Banks() {
		var candidates []*bank.Node
		for _, item := range b.Items {
			if !rootTypes[item.Name] {
				continue
			}
			// anonymous items cannot be referenced or named
			if _, ok := item.ShortID(); !ok {
				continue
			}
			candidates = append(candidates, item)
		}

		allowed, rest := g.split(candidates)
		if !g.cfg.Generate.BankOrder {
			sortCandidates(allowed)
			sortCandidates(rest)
		}

		for _, node := range allowed {
			if err := g.renderRoot(ctx, engine, node); err != nil {
				return err
			}
		}
		if g.filter.Empty() || g.filter.Rest() {
			for _, node := range rest {
				if err := g.renderRoot(ctx, engine, node); err != nil {
					return err
				}
			}
		}
		totalAllowed += len(allowed)
		totalRest += len(rest)
	}

	logger.Info("root candidates rendered",
		logging.Int("allowed", totalAllowed), logging.Int("rest", totalRest))
	return nil
}

// split partitions candidates into filter-allowed and the remainder.
// With no filter everything lands in the remainder so ordering rules
// apply uniformly.
func (g *Generator) split(candidates []*bank.Node) (allowed, rest []*bank.Node) {
	if g.filter.Empty() {
		return nil, candidates
	}
	for _, node := range candidates {
		if g.filter.Allowed(node) {
			allowed = append(allowed, node)
		} else {
			rest = append(rest, node)
		}
	}
	return allowed, rest
}

// sortCandidates orders named roots first, alphabetically, then
// unnamed ones by id. Stable across runs regardless of bank layout.
func sortCandidates(nodes []*bank.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		ni, nj := nodes[i].DisplayName(), nodes[j].DisplayName()
		switch {
		case ni != "" && nj != "":
			return ni < nj
		case ni != "":
			return true
		case nj != "":
			return false
		}
		idI, _ := nodes[i].ShortID()
		idJ, _ := nodes[j].ShortID()
		return idI < idJ
	})
}

// renderRoot renders one root, attaching the failing object's identity
// and bank before aborting the run. A single broken object means the
// dump is suspect, so nothing after it renders.
func (g *Generator) renderRoot(ctx context.Context, engine *render.Engine, node *bank.Node) error {
	if err := engine.RenderRoot(ctx, node); err != nil {
		bankName := ""
		if node.Bank() != nil {
			bankName = node.Bank().Filename
		}
		return Wrap(ErrRender, "generator", "render",
			fmt.Sprintf("object %s in %s", node.Label(), bankName), err)
	}
	return nil
}

// renderUnused sweeps objects nothing referenced, type by type in the
// table's priority order. Rendering an outer type marks its subtree
// used, so inner types are re-queried after each sweep.
func (g *Generator) renderUnused(ctx context.Context, logger *slog.Logger, engine *render.Engine, reg *registry.Registry, cache *txtp.Cache) error {
	if !reg.HasUnused() {
		return nil
	}
	cache.UnusedMark = true
	defer func() { cache.UnusedMark = false }()

	total := 0
	for _, typeName := range reg.UnusedTypes() {
		nodes := reg.ListUnused(typeName)
		for _, node := range nodes {
			if err := g.renderRoot(ctx, engine, node); err != nil {
				return err
			}
		}
		total += len(nodes)
	}
	logger.Info("unused objects rendered", logging.Int("count", total))
	return nil
}
