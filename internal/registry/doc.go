// Package registry resolves hierarchy-object references across every
// loaded bank and caches the objects built from them.
//
// Identity is by source node, not by (bank, id): the same short id may
// name clones or genuinely distinct objects in different banks, so all
// caches key on arena handles. Missing, duplicate and ambiguous
// references are expected data-quality issues and accumulate as
// diagnostics; only malformed data during construction is an error.
//
// The registry is populated once during setup and read continuously
// afterwards. It is not safe for concurrent use.
package registry
