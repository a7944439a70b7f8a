// Package action provides the single-flight, observable task wrapper every
// wallet action is built on.
//
// An Action[T] moves through Idle, Running, and one terminal state
// (Succeeded or Failed). Concurrent Run calls while Running join the
// in-flight operation instead of starting another one, so exactly one
// underlying operation executes per Running period. Observers attach with
// Subscribe and receive the current state immediately, including a cached
// terminal state from an earlier run, followed by every later transition in
// order.
//
// Failures never escape Run: they are delivered as a Failed state, through
// Handle.Wait, or through Err.
package action
