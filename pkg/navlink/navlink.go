// Package navlink implements an active-aware navigation link: an anchor
// that tracks whether its target matches the current location, toggles
// an active CSS class on navigation, and handles in-page fragment links
// by invoking a lazily loaded client-side scroll helper instead of a
// full navigation.
package navlink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/vango-go/navkit/pkg/interop"
	"github.com/vango-go/navkit/pkg/location"
	"github.com/vango-go/navkit/pkg/urlmatch"
	"github.com/vango-go/navkit/pkg/vdom"
)

const (
	// DefaultActiveClass is appended to the base class while the link is
	// active, unless overridden with WithActiveClass.
	DefaultActiveClass = "active"

	// DefaultScrollModule is the client-side helper loaded on the first
	// anchor click.
	DefaultScrollModule = "_navkit/scroll-helper.js"

	// ScrollFn is the helper export invoked with the fragment target id.
	ScrollFn = "scrollToFragment"
)

// ErrDetached is returned when mounting a link that was already
// disposed. Disposal is terminal.
var ErrDetached = errors.New("navlink: link detached")

// NavLink is one navigation link instance, normally owned by a single
// session and driven from its event loop. A click handler blocks while
// the scroll helper loads, so location notifications and further clicks
// can still arrive concurrently; derived state is guarded by a mutex.
// The scroll module ref is internally synchronized and safe to release
// from teardown paths.
type NavLink struct {
	base        *url.URL
	mode        urlmatch.Mode
	activeClass string
	scroll      *interop.ModuleRef

	mu sync.Mutex

	// Attribute-derived state.
	target      LinkTarget
	intent      AnchorIntent
	baseClass   string
	passthrough map[string]any
	children    []any

	// Location-derived state.
	loc        string
	state      ActiveState
	invalidate func()

	attached    bool
	disposed    bool
	unsubscribe func()
}

// Option configures a NavLink at construction.
type Option func(*NavLink)

// WithBase sets the application base URL the raw href is resolved
// against. Links without a base reject any href at SetAttributes time.
func WithBase(base *url.URL) Option {
	return func(l *NavLink) { l.base = base }
}

// WithMatch sets the match mode. The default is urlmatch.MatchExact.
func WithMatch(mode urlmatch.Mode) Option {
	return func(l *NavLink) { l.mode = mode }
}

// WithActiveClass overrides the class appended while the link is active.
func WithActiveClass(class string) Option {
	return func(l *NavLink) { l.activeClass = class }
}

// WithScrollRuntime wires the transport used to load the scroll helper
// for anchor links. Without it, anchor clicks skip the scroll.
func WithScrollRuntime(rt interop.Runtime) Option {
	return func(l *NavLink) { l.scroll = interop.NewModuleRef(rt, DefaultScrollModule) }
}

// WithScrollModule wires the transport with a non-default helper path.
func WithScrollModule(rt interop.Runtime, path string) Option {
	return func(l *NavLink) { l.scroll = interop.NewModuleRef(rt, path) }
}

// New creates an unattached link. Attributes arrive via SetAttributes;
// the location stream via Mount.
func New(opts ...Option) *NavLink {
	l := &NavLink{
		mode:        urlmatch.MatchExact,
		activeClass: DefaultActiveClass,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetAttributes ingests the link's attribute bag. "href" and "class"
// are recognized; everything else passes through to rendering
// unmodified. A href the resolver rejects is returned as an error and
// leaves the link's state untouched.
func (l *NavLink) SetAttributes(attrs map[string]any) error {
	var target LinkTarget
	if raw, ok := attrs["href"]; ok {
		target.Raw = attrString(raw)
		target.HasHref = true
		abs, err := urlmatch.ResolveHref(l.base, target.Raw)
		if err != nil {
			return err
		}
		target.Absolute = abs
	}

	passthrough := make(map[string]any, len(attrs))
	for key, value := range attrs {
		if key == "href" || key == "class" {
			continue
		}
		passthrough[key] = value
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = target
	l.intent = DeriveIntent(target.Raw, target.HasHref)
	l.baseClass = attrString(attrs["class"])
	l.passthrough = passthrough
	l.recompute()
	return nil
}

// SetChildren sets the link's child content, passed through to the
// anchor element on render.
func (l *NavLink) SetChildren(children ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.children = children
}

// Mount attaches the link to a location stream. It computes the initial
// state synchronously against the source's current location, then
// subscribes for changes; invalidate is called whenever the active flag
// flips, and only then.
func (l *NavLink) Mount(src location.Source, invalidate func()) error {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return ErrDetached
	}
	if l.attached {
		l.mu.Unlock()
		return nil
	}

	l.invalidate = invalidate
	l.loc = src.Current()
	l.recompute()
	l.attached = true
	l.mu.Unlock()

	unsubscribe := src.Subscribe(l.onLocationChange)

	l.mu.Lock()
	l.unsubscribe = unsubscribe
	disposed := l.disposed
	l.mu.Unlock()

	// Teardown raced the subscription; finish the job.
	if disposed {
		unsubscribe()
	}
	return nil
}

// onLocationChange recomputes the active state for the new location and
// requests a repaint only when the flag actually flipped.
func (l *NavLink) onLocationChange(loc string) {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return
	}
	l.loc = loc
	wasActive := l.state.IsActive
	l.recompute()
	invalidate := l.invalidate
	changed := l.state.IsActive != wasActive
	l.mu.Unlock()

	if changed && invalidate != nil {
		invalidate()
	}
}

// OnClick is the anchor click handler. For fragment links it lazily
// obtains the scroll helper and invokes it with the target id; the
// module loads at most once per link lifetime, and concurrent clicks
// during the first load share the acquisition. Failures are returned to
// the caller and leave the active state untouched. Non-fragment links
// are a no-op here; navigation is the host's concern.
func (l *NavLink) OnClick(ctx context.Context) error {
	l.mu.Lock()
	targetID := l.intent.TargetID
	scroll := l.scroll
	l.mu.Unlock()

	if targetID == "" || scroll == nil {
		return nil
	}

	h, err := scroll.Get(ctx)
	if err != nil {
		return fmt.Errorf("navlink: load scroll helper: %w", err)
	}

	err = h.Invoke(ctx, ScrollFn, targetID)

	// The scroll does not change where we are, but re-derive the class
	// so a stale composition never survives a click.
	l.mu.Lock()
	l.recompute()
	l.mu.Unlock()

	if err != nil {
		return fmt.Errorf("navlink: %s(%q): %w", ScrollFn, targetID, err)
	}
	return nil
}

// Dispose tears the link down: it unsubscribes from the location stream
// and releases the scroll helper, awaiting a pending load first so the
// handle is never leaked. Dispose is idempotent and disposal is
// terminal.
func (l *NavLink) Dispose(ctx context.Context) error {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return nil
	}
	l.disposed = true
	l.attached = false
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	l.invalidate = nil
	scroll := l.scroll
	l.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if scroll == nil {
		return nil
	}
	return scroll.Release(ctx)
}

// Render produces the anchor element for the current state. The class
// attribute carries the composed class string, pass-through attributes
// are emitted as supplied, and fragment links are marked so the client
// suppresses the default navigation.
func (l *NavLink) Render() *vdom.VNode {
	l.mu.Lock()
	defer l.mu.Unlock()

	args := make([]any, 0, len(l.passthrough)+len(l.children)+4)
	if l.target.HasHref {
		args = append(args, vdom.Href(l.target.Raw))
	}
	if l.state.CSSClass != "" {
		args = append(args, vdom.Class(l.state.CSSClass))
	}
	for key, value := range l.passthrough {
		args = append(args, vdom.Attr{Key: key, Value: value})
	}
	if l.intent.PreventDefault {
		args = append(args, vdom.Data("prevent-default", "true"))
	}
	args = append(args, vdom.OnClick(l.OnClick))
	args = append(args, l.children...)
	return vdom.A(args...)
}

// State returns the current computed presentation state.
func (l *NavLink) State() ActiveState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Intent returns the current anchor intent.
func (l *NavLink) Intent() AnchorIntent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intent
}

// Target returns the current link target.
func (l *NavLink) Target() LinkTarget {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

// recompute derives the active state from the current location and
// target. Callers hold l.mu.
func (l *NavLink) recompute() {
	active := urlmatch.Matches(l.loc, l.target.Absolute, l.mode)
	l.state = ActiveState{
		IsActive: active,
		CSSClass: ComposeClass(l.baseClass, l.activeClass, active),
	}
}

func attrString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
