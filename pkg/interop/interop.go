// Package interop abstracts the transport that loads and drives
// client-side helper modules (e.g. the scroll helper a navigation link
// uses for in-page anchors).
//
// A Runtime turns a module path into a Handle; ModuleRef wraps that
// acquisition in a memoized deferred loader so a module is fetched at
// most once per owner and released exactly once at teardown.
package interop

import "context"

// Handle is a loaded client-side module.
type Handle interface {
	// Invoke calls the named export with the given arguments. The call
	// is fire-and-observe: it reports transport or client errors but
	// returns no value.
	Invoke(ctx context.Context, fn string, args ...any) error

	// Release disposes the module on the client. Implementations must
	// tolerate repeated calls.
	Release(ctx context.Context) error
}

// Runtime acquires client-side modules. Implemented by the session
// transport; test code substitutes fakes.
type Runtime interface {
	// LoadModule asynchronously imports the module at path and returns
	// a handle to it.
	LoadModule(ctx context.Context, path string) (Handle, error)
}
