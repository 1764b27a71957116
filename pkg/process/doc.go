// Package process turns a raw process record into the typed graph that the
// layout engine consumes.
//
// [Adapt] is the single entry point. It infers each step's kind, attaches
// the fixed box dimensions, normalizes statuses, and either validates and
// classifies the supplied edges or, when the record has no edges array,
// synthesizes a sequential chain in node order.
//
// Nothing in this package returns an error for malformed content. Problems
// are repaired where possible and reported as [Diagnostic] values so that a
// malformed process still renders.
package process
