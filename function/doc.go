// Package function provides Function, a value-semantic, type-erased container
// for callables with a fixed signature func(A) R.
//
// A Function owns exactly one payload. Copying a Function copies the payload,
// moving it transfers ownership and leaves the source empty, and destroying it
// releases the payload exactly once.
//
// # Storage
//
// Every payload type is classified once, when it is first stored:
//   - small: pointer-free values narrower than a machine word live inline in the
//     Function, with no heap allocation.
//   - large: everything else is held in a single heap box owned by the Function.
//
// # Dispatch
//
// Each payload type gets one immutable operation table (copy, move, destroy,
// invoke), created lazily and kept for the life of the process. All operations
// on a Function go through its current table; an empty Function points at a
// shared empty table whose invoke fails with ErrEmptyCall.
//
// # Value semantics in Go
//
// Go assignment is a shallow copy. Payloads that need a deep copy implement
// Cloner, payloads that hold resources implement Releaser.
//
// Example:
//
//	f := function.Of(func(x int) int { return x + 5 })
//	v, _ := f.Call(3)   // 8
//	g := f.Clone()
//	v, _ = g.Call(10)   // 15
//	h := f.Take()       // f is now empty
//	_, err := f.Call(1) // errors.Is(err, function.ErrEmptyCall)
//	_ = h
package function
