package reactive

// Listener is anything that can be notified when a value it depends on
// changes. Components implement this to schedule a repaint; bridges
// implement it to forward changes into another stream.
type Listener interface {
	// MarkDirty notifies the listener that a dependency has changed.
	MarkDirty()

	// ID returns a unique identifier for this listener, used to
	// deduplicate subscriptions.
	ID() uint64
}

// Cleanup is a function that detaches a subscription or disposes a
// resource. Calling it more than once is a no-op.
type Cleanup func()
