// Package location provides the push-based location-change stream that
// navigation components subscribe to. The host (session, router, test
// harness) owns a Broadcaster and feeds it the new absolute location on
// every navigation; subscribers receive each distinct location exactly
// once per change.
package location

import (
	"sync"

	"github.com/vango-go/navkit/pkg/reactive"
)

// Source exposes the current absolute location and a change stream.
// Subscribe returns an unsubscribe function that is safe to call more
// than once.
type Source interface {
	// Current returns the latest known absolute location.
	Current() string

	// Subscribe registers fn to be invoked with the new absolute
	// location on every change.
	Subscribe(fn func(location string)) (unsubscribe func())
}

// Broadcaster is the canonical Source implementation. The zero value is
// not usable; create one with NewBroadcaster.
type Broadcaster struct {
	loc *reactive.Signal[string]
}

// NewBroadcaster creates a broadcaster with the given initial absolute
// location.
func NewBroadcaster(initial string) *Broadcaster {
	return &Broadcaster{loc: reactive.NewSignal(initial)}
}

// Current returns the latest known absolute location.
func (b *Broadcaster) Current() string {
	return b.loc.Get()
}

// Set records a new location and notifies subscribers. Setting the same
// location again is silent.
func (b *Broadcaster) Set(loc string) {
	b.loc.Set(loc)
}

// Subscribe registers fn for location changes. The returned unsubscribe
// function is idempotent.
func (b *Broadcaster) Subscribe(fn func(string)) func() {
	l := reactive.NewListenerFunc(func() {
		fn(b.loc.Get())
	})
	b.loc.Subscribe(l)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.loc.Unsubscribe(l)
		})
	}
}
