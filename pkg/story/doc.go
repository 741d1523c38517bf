// Package story implements the narrative graph model at the heart of storyloom.
//
// A [Story] owns a collection of [Scene] nodes keyed by a unique string
// identity. Scenes carry narrative text and an ordered list of outgoing
// choices, each a labeled edge pointing at a target key. Target keys need
// not resolve to a scene that currently exists - dangling references are
// legal, survive serialization round-trips, and are silently skipped during
// traversal.
//
// # Graph, not tree
//
// Although the editing model presents the story as a tree rooted at the
// first scene ever added, the underlying relation is a general directed
// graph: several scenes' choice tables may reference the same key, and
// cycles are representable. Every scene carries a non-owning parent
// back-reference that reflects only the last link established; traversal
// never assumes acyclicity and visits each key at most once.
//
// # Traversal
//
//	visits := st.ScenesDFS(nil) // nil start defaults to the root
//	for _, v := range visits {
//	    fmt.Println(strings.Repeat("  ", v.Depth), v.Key)
//	}
//
// [Story.ScenesDFS] is an iterative depth-first walk with an explicit
// stack, safe on cyclic input. [Story.HasCircle] reports back-edges to
// already-completed scenes in DFS order; it is deliberately weaker than
// path-based cycle detection and its literal behavior is part of the
// package contract.
//
// # Mutation and failure policy
//
// Mutations report success as booleans and lookups as (value, ok) pairs.
// Benign failures - duplicate keys, unknown keys, no-op edits - never
// panic; the story logs a warning through the logger passed to [New] and
// returns a sentinel. Deserialization failures are reported as errors
// wrapping [ErrMalformedScene] or [ErrEmptyStory].
//
// # Concurrency
//
// A Story and its Scenes form a single mutable object graph shared by
// reference. The package assumes exactly one logical mutator at a time and
// performs no locking of its own.
package story
