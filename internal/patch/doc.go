// Package patch implements the patch graph and the drag gesture state machine.
//
// Graph is the single source of truth for what is wired to what; the signal
// engine behind ports.SignalEngine is a best-effort mirror that the graph keeps
// in sync. DragController turns press/move/release events into graph mutations.
//
// Neither type is safe for concurrent use. Callers serialize mutation (see the
// Rack type in the root package) and hand readers snapshots.
package patch
