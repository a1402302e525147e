// Package bank models parsed soundbank data as handed over by the bank
// parser: loaded banks, their hierarchy node trees, and the arena
// handles that give every node a stable identity for run-scoped caches.
//
// Nodes are immutable once a bank has been adopted into a Set. The
// parser is a separate concern; this package only defines the shape it
// must produce plus a JSON loader for bank dumps on disk.
package bank
