// Package dag provides a dependency-aware scheduler for batches of named
// generation tasks.
//
// A flat batch of tasks with declared dependency names is shaped into a
// Graph, which can then be linearized (Sort), reduced to the prerequisite
// closure of a single target (Slice), or executed concurrently through a
// caller-supplied unit of work (Runner).
//
// The scheduler only ever consumes task identity and dependency names; task
// payloads are carried through untouched.
package dag
