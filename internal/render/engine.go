package render

import (
	"context"
	"log/slog"

	"wwtxtp/internal/bank"
	"wwtxtp/internal/logging"
	"wwtxtp/internal/txtp"
)

// Walker performs one render pass: it builds artifact content from a
// root object and, as a side effect, reports discovered combos and
// secondary objects into the shared State.
type Walker interface {
	// Begin renders one pass from a root hierarchy node.
	Begin(t *txtp.Txtp, node *bank.Node) error

	// BeginRef renders one pass from a referenced object; used for
	// secondary artifacts whose target is known only by reference.
	BeginRef(t *txtp.Txtp, ref bank.Ref) error

	// GeneratedTypes lists the hierarchy type names rendered as
	// primary root candidates.
	GeneratedTypes() []string
}

// Engine drives the combinatorial protocol for one root object at a
// time: reset, base render, then recurse selector by selector, chunk
// by chunk, parameter by parameter, finalizing one artifact per leaf.
type Engine struct {
	ws     *State
	walker Walker
	cache  *txtp.Cache
	logger *slog.Logger
}

// NewEngine wires the engine to its collaborators.
func NewEngine(ws *State, walker Walker, cache *txtp.Cache, logger *slog.Logger) *Engine {
	return &Engine{
		ws:     ws,
		walker: walker,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "engine"),
	}
}

// State exposes the shared combinatorial state.
func (e *Engine) State() *State { return e.ws }

// RenderRoot enumerates every distinct state combination for one root
// object, emitting one artifact per leaf, then one artifact per
// secondary object discovered along the way.
func (e *Engine) RenderRoot(ctx context.Context, node *bank.Node) error {
	e.ws.Reset()

	// base render discovers the selector dimension; its own output is
	// only kept when no combos exist at all
	base, err := e.beginPass(node)
	if err != nil {
		return err
	}
	if err := e.renderSelectors(ctx, node, base); err != nil {
		return err
	}
	if err := e.renderSecondaries(ctx, node); err != nil {
		return err
	}
	e.logger.Debug("root rendered", logging.String("node", node.Label()))
	return nil
}

// renderSelectors iterates the selector dimension. Selector choices
// that leave some chunk branches unreachable are deferred: every
// reachable branch across the whole loop renders first, then the
// deferred (selector, unreachable-chunk) pairs render as leftovers.
func (e *Engine) renderSelectors(ctx context.Context, node *bank.Node, base *txtp.Txtp) error {
	combos := e.ws.SelectorCombos()
	if len(combos) == 0 {
		e.ws.FilterChunks()
		return e.renderChunks(ctx, node, base, false)
	}

	var deferred []SelectorCombo
	for _, combo := range combos {
		t, err := e.applySelector(node, combo)
		if err != nil {
			return err
		}
		if e.ws.HasUnreachableChunks() {
			deferred = append(deferred, combo)
		}
		if err := e.renderChunks(ctx, node, t, false); err != nil {
			return err
		}
	}
	for _, combo := range deferred {
		t, err := e.applySelector(node, combo)
		if err != nil {
			return err
		}
		if err := e.renderChunks(ctx, node, t, true); err != nil {
			return err
		}
	}
	return nil
}

// applySelector re-renders under one selector combo. Chunk and
// parameter state reset first: both depend on the selector choice, and
// stale combos from a sibling branch would fabricate outputs.
func (e *Engine) applySelector(node *bank.Node, combo SelectorCombo) (*txtp.Txtp, error) {
	e.ws.ApplySelector(combo)
	e.ws.ResetChunks()
	e.ws.ResetParams()
	t, err := e.beginPass(node)
	if err != nil {
		return nil, err
	}
	e.ws.FilterChunks()
	return t, nil
}

// renderChunks iterates state-chunk combos whose reachability tag
// matches the current pass. After the reachable combos, one extra
// default-marked pass renders with chunk state explicitly cleared when
// the discovery set asks for it.
func (e *Engine) renderChunks(ctx context.Context, node *bank.Node, t *txtp.Txtp, unreachablePass bool) error {
	combos := e.ws.ChunkCombos()
	if len(combos) == 0 {
		if unreachablePass {
			return nil
		}
		return e.renderParams(ctx, node, t)
	}

	for _, chunk := range combos {
		if chunk.Unreachable != unreachablePass {
			continue
		}
		e.ws.ApplyChunk(chunk)
		e.ws.ResetParams()
		ct, err := e.beginPass(node)
		if err != nil {
			return err
		}
		if err := e.renderParams(ctx, node, ct); err != nil {
			return err
		}
	}

	if !unreachablePass && e.ws.GenerateDefaultChunk(combos) {
		e.ws.ApplyDefaultChunk()
		e.ws.ResetParams()
		dt, err := e.beginPass(node)
		if err != nil {
			return err
		}
		if err := e.renderParams(ctx, node, dt); err != nil {
			return err
		}
	}
	return nil
}

// renderParams iterates the parameter dimension and finalizes leaves.
func (e *Engine) renderParams(ctx context.Context, node *bank.Node, t *txtp.Txtp) error {
	combos := e.ws.ParamCombos()
	if len(combos) == 0 {
		return t.Write(ctx)
	}
	for _, combo := range combos {
		e.ws.ApplyParams(combo)
		pt, err := e.beginPass(node)
		if err != nil {
			return err
		}
		if err := pt.Write(ctx); err != nil {
			return err
		}
	}
	return nil
}

// renderSecondaries emits one artifact per stinger/transition
// discovered anywhere in the root's combination tree, tagged with the
// originating caller.
func (e *Engine) renderSecondaries(ctx context.Context, caller *bank.Node) error {
	secondaries := e.ws.Secondaries()
	if len(secondaries) == 0 {
		return nil
	}
	callerLabel := caller.Label()
	for _, sec := range secondaries {
		t := txtp.New(e.cache)
		if err := e.walker.BeginRef(t, sec.Ref); err != nil {
			return err
		}
		t.SetCaller(callerLabel)
		t.SetSecondary(sec.Kind.String())
		if err := t.Write(ctx); err != nil {
			return err
		}
	}
	return nil
}

// beginPass starts a fresh artifact, stamps it with the active chunk
// and parameter assignment, and runs one walker pass. Selector tags
// come from the walker itself: only groups the render actually crosses
// belong in the name.
func (e *Engine) beginPass(node *bank.Node) (*txtp.Txtp, error) {
	t := txtp.New(e.cache)
	if e.ws.DefaultChunkPass() {
		t.MarkDefaultChunk()
	} else if chunk := e.ws.ActiveChunk(); chunk != nil {
		t.AddChunk(chunk.GroupName, chunk.ValueName, chunk.Unreachable)
	}
	for _, p := range e.ws.ActiveParams() {
		t.AddParam(p.Name, p.Value)
	}
	if err := e.walker.Begin(t, node); err != nil {
		return nil, err
	}
	return t, nil
}
