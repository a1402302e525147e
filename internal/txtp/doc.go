// Package txtp accumulates and emits playback descriptor artifacts.
//
// A Txtp collects the structure one render pass produced (sources plus
// an annotated info tree) and the tags that distinguish it from its
// siblings: selector assignments, state-chunk assignments, parameter
// buckets, default/unused markers, and caller references for secondary
// artifacts. Write composes the final name, suppresses duplicates by
// content hash, records the artifact in the run index, and writes the
// descriptor file.
package txtp
