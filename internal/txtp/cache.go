package txtp

import (
	"log/slog"

	"wwtxtp/internal/logging"
)

// Stats counts emission outcomes for the end-of-run report.
type Stats struct {
	Created    int
	Duplicates int
	Unused     int
	Secondary  int
	Silent     int
}

// Cache is the run-scoped emission context shared by every artifact:
// output options, duplicate bookkeeping, the persistent index, and
// counters. Single-threaded, like the render pass that feeds it.
type Cache struct {
	OutDir     string
	NameVars   bool
	AllowDupes bool
	NoWrite    bool
	RunID      string

	// Volume, when set, is appended to every artifact as a volume
	// command line; the value passes through unparsed.
	Volume string

	// UnusedMark tags artifacts emitted during the unused pass.
	UnusedMark bool

	Stats Stats

	logger *slog.Logger
	index  *Index
	hashes map[string]bool
	names  map[string]int
}

// NewCache builds an emission context.
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		logger: logging.NewComponentLogger(logger, "txtp"),
		hashes: make(map[string]bool),
		names:  make(map[string]int),
	}
}

// SetIndex attaches the persistent artifact index. Without one,
// duplicate suppression is in-memory and per-run only.
func (c *Cache) SetIndex(ix *Index) { c.index = ix }

// Index returns the attached index, nil when running without one.
func (c *Cache) Index() *Index { return c.index }
