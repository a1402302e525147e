// Package render enumerates every state combination that changes a
// root object's playback structure and emits one artifact per distinct
// combination.
//
// The search space is never known upfront. Rendering one pass discovers
// the next dimension's combos as a side effect, so the engine drives a
// strict reset, render, discover, recurse protocol across three nested
// dimensions in fixed order: switch/state selectors, then state-chunk
// assignments, then parameter buckets. Downstream dimensions reset on
// every upstream step; otherwise combos discovered under one branch
// leak into its siblings and fabricate outputs.
package render
