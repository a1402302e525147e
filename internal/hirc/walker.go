package hirc

import (
	"fmt"
	"log/slog"

	"wwtxtp/internal/bank"
	"wwtxtp/internal/logging"
	"wwtxtp/internal/registry"
	"wwtxtp/internal/render"
	"wwtxtp/internal/txtp"
)

// maxRenderDepth bounds reference chains; authored hierarchies stay
// shallow, so hitting it means a reference cycle.
const maxRenderDepth = 64

// renderable is the render half of a contract. Types without it (null
// objects, non-playable contracts) terminate the walk silently.
type renderable interface {
	render(p *pass) error
}

// Walker renders resolved hierarchy objects into artifact content,
// reporting discovered combos into the shared combinatorial state.
type Walker struct {
	reg    *registry.Registry
	ws     *render.State
	logger *slog.Logger
}

// NewWalker wires a walker to its registry and shared state.
func NewWalker(reg *registry.Registry, ws *render.State, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Walker{reg: reg, ws: ws, logger: logging.NewComponentLogger(logger, "walker")}
}

// Begin renders one pass from a root hierarchy node.
func (w *Walker) Begin(t *txtp.Txtp, node *bank.Node) error {
	obj, err := w.reg.Build(node)
	if err != nil {
		return err
	}
	p := &pass{w: w, t: t}
	return p.render(obj)
}

// BeginRef renders one pass from a referenced object. Secondary
// targets carry no caller node and no declared bank.
func (w *Walker) BeginRef(t *txtp.Txtp, ref bank.Ref) error {
	obj, err := w.reg.GetOrBuild(ref.BankID, ref.ID, nil, nil)
	if err != nil {
		return err
	}
	p := &pass{w: w, t: t}
	return p.render(obj)
}

// GeneratedTypes lists the root candidate types.
func (w *Walker) GeneratedTypes() []string {
	return []string{TypeEvent}
}

// pass is the per-render-pass cursor: the artifact under construction
// and the current reference depth.
type pass struct {
	w     *Walker
	t     *txtp.Txtp
	depth int
}

// renderRef resolves one child reference and renders it. Missing
// references end the branch; the registry already bucketed them.
func (p *pass) renderRef(caller *bank.Node, bankID, id uint32, declared *bank.Node) error {
	obj, err := p.w.reg.GetOrBuild(bankID, id, caller, declared)
	if err != nil {
		return err
	}
	return p.render(obj)
}

func (p *pass) render(obj registry.Object) error {
	if obj == nil {
		return nil
	}
	r, ok := obj.(renderable)
	if !ok {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxRenderDepth {
		return fmt.Errorf("reference chain exceeds depth %d", maxRenderDepth)
	}
	return r.render(p)
}
