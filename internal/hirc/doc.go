// Package hirc holds the construction contracts for hierarchy object
// types and the walker that renders resolved objects into artifacts.
//
// Each type parses its source node once through the registry's
// two-phase protocol (bind, then parse) and renders as many times as
// the engine re-enters it, consulting the shared combinatorial state:
// an unassigned selector group reports its possible values and renders
// every branch so nested groups surface in the same pass; an assigned
// one renders only the matching branch and tags the artifact.
package hirc
