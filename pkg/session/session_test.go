package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-go/navkit/pkg/protocol"
	"github.com/vango-go/navkit/pkg/vdom"
)

type fakeConn struct {
	inbound chan []byte
	wrote   chan []byte

	mu     sync.Mutex
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		wrote:   make(chan []byte, 16),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	msg, ok := <-c.inbound
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return websocket.BinaryMessage, msg, nil
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.wrote <- append([]byte(nil), data...)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.inbound)
	}
	return nil
}

// push injects a client frame unless the connection was closed.
func (c *fakeConn) push(t *testing.T, data []byte) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		t.Fatal("push on closed connection")
	}
	c.inbound <- data
}

// nextFrame waits for the session's next outbound frame.
func (c *fakeConn) nextFrame(t *testing.T) *protocol.Message {
	t.Helper()
	select {
	case data := <-c.wrote:
		msg, err := protocol.Decode(data)
		if err != nil {
			t.Fatalf("Decode(outbound) error = %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound frame")
		return nil
	}
}

func TestNavigateEventUpdatesLocation(t *testing.T) {
	conn := newFakeConn()
	s := New(conn, WithLocation("https://example.com/"))
	defer s.Close()

	locs := make(chan string, 1)
	unsub := s.Location().Subscribe(func(loc string) { locs <- loc })
	defer unsub()

	s.Start()
	conn.push(t, protocol.EncodeEvent(&protocol.Event{
		Type:     protocol.EventNavigate,
		Location: "https://example.com/docs",
	}))

	select {
	case got := <-locs:
		if got != "https://example.com/docs" {
			t.Errorf("location = %q, want %q", got, "https://example.com/docs")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for location change")
	}

	if got := s.Location().Current(); got != "https://example.com/docs" {
		t.Errorf("Current() = %q, want %q", got, "https://example.com/docs")
	}
}

func TestHydrateRoutesClicks(t *testing.T) {
	conn := newFakeConn()
	s := New(conn)
	defer s.Close()

	clicked := make(chan struct{}, 1)
	node := vdom.A(
		vdom.Href("#features"),
		vdom.OnClick(func(ctx context.Context) error {
			clicked <- struct{}{}
			return nil
		}),
	)
	s.Hydrate(node)

	if node.HID == "" {
		t.Fatal("Hydrate() did not assign a hydration ID")
	}

	s.Start()
	conn.push(t, protocol.EncodeEvent(&protocol.Event{
		Type: protocol.EventClick,
		HID:  node.HID,
	}))

	select {
	case <-clicked:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for click handler")
	}
}

func TestHydrateSkipsStaticNodes(t *testing.T) {
	s := New(newFakeConn())
	defer s.Close()

	root := vdom.Nav(
		vdom.A(vdom.Href("/docs"), "Docs"),
		vdom.A(vdom.OnClick(func(ctx context.Context) error { return nil }), "Go"),
	)
	s.Hydrate(root)

	static, interactive := root.Children[0], root.Children[1]
	if static.HID != "" {
		t.Errorf("static node HID = %q, want empty", static.HID)
	}
	if interactive.HID == "" {
		t.Error("interactive node HID empty, want assigned")
	}
}

func TestModuleCallRoundTrip(t *testing.T) {
	conn := newFakeConn()
	s := New(conn)
	defer s.Close()
	s.Start()

	type loadResult struct {
		h   interopHandle
		err error
	}
	loaded := make(chan loadResult, 1)
	go func() {
		h, err := s.LoadModule(context.Background(), "_navkit/scroll-helper.js")
		loaded <- loadResult{h, err}
	}()

	// Load command goes out; answer it.
	msg := conn.nextFrame(t)
	if msg.Type != protocol.FrameModule || msg.Module.Op != protocol.ModuleLoad {
		t.Fatalf("frame = %+v, want ModuleLoad", msg)
	}
	if msg.Module.Path != "_navkit/scroll-helper.js" {
		t.Errorf("Path = %q, want scroll helper", msg.Module.Path)
	}
	conn.push(t, protocol.EncodeEvent(&protocol.Event{
		Type: protocol.EventModuleResult, CallID: msg.Module.CallID, OK: true,
	}))

	res := <-loaded
	if res.err != nil {
		t.Fatalf("LoadModule() error = %v", res.err)
	}

	// Invoke with JSON-encoded args.
	invoked := make(chan error, 1)
	go func() { invoked <- res.h.Invoke(context.Background(), "scrollToFragment", "features") }()

	msg = conn.nextFrame(t)
	if msg.Module.Op != protocol.ModuleInvoke {
		t.Fatalf("Op = %v, want ModuleInvoke", msg.Module.Op)
	}
	if msg.Module.Fn != "scrollToFragment" {
		t.Errorf("Fn = %q, want scrollToFragment", msg.Module.Fn)
	}
	if msg.Module.Args != `["features"]` {
		t.Errorf("Args = %q, want %q", msg.Module.Args, `["features"]`)
	}
	conn.push(t, protocol.EncodeEvent(&protocol.Event{
		Type: protocol.EventModuleResult, CallID: msg.Module.CallID, OK: true,
	}))
	if err := <-invoked; err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	// Release once, then verify the second release sends nothing.
	released := make(chan error, 1)
	go func() { released <- res.h.Release(context.Background()) }()

	msg = conn.nextFrame(t)
	if msg.Module.Op != protocol.ModuleRelease {
		t.Fatalf("Op = %v, want ModuleRelease", msg.Module.Op)
	}
	conn.push(t, protocol.EncodeEvent(&protocol.Event{
		Type: protocol.EventModuleResult, CallID: msg.Module.CallID, OK: true,
	}))
	if err := <-released; err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if err := res.h.Release(context.Background()); err != nil {
		t.Fatalf("second Release() error = %v", err)
	}
	select {
	case data := <-conn.wrote:
		t.Fatalf("second Release() wrote a frame: %v", data)
	case <-time.After(50 * time.Millisecond):
	}

	if err := res.h.Invoke(context.Background(), "scrollToFragment", "x"); !errors.Is(err, ErrHandleReleased) {
		t.Errorf("Invoke() after release error = %v, want ErrHandleReleased", err)
	}
}

// interopHandle mirrors interop.Handle without importing it here; the
// session's handle must satisfy both.
type interopHandle interface {
	Invoke(ctx context.Context, fn string, args ...any) error
	Release(ctx context.Context) error
}

func TestModuleCallFailure(t *testing.T) {
	conn := newFakeConn()
	s := New(conn)
	defer s.Close()
	s.Start()

	errs := make(chan error, 1)
	go func() {
		_, err := s.LoadModule(context.Background(), "missing.js")
		errs <- err
	}()

	msg := conn.nextFrame(t)
	conn.push(t, protocol.EncodeEvent(&protocol.Event{
		Type:   protocol.EventModuleResult,
		CallID: msg.Module.CallID,
		OK:     false,
		ErrMsg: "module not found",
	}))

	if err := <-errs; err == nil {
		t.Fatal("LoadModule() expected error for failed result")
	}
}

func TestCloseFailsPendingCalls(t *testing.T) {
	conn := newFakeConn()
	s := New(conn)
	s.Start()

	errs := make(chan error, 1)
	go func() {
		_, err := s.LoadModule(context.Background(), "_navkit/scroll-helper.js")
		errs <- err
	}()
	conn.nextFrame(t)

	s.Close()
	if err := <-errs; !errors.Is(err, ErrSessionClosed) {
		t.Errorf("LoadModule() error = %v, want ErrSessionClosed", err)
	}
}

type countingDisposable struct {
	disposals int
}

func (d *countingDisposable) Dispose(ctx context.Context) error {
	d.disposals++
	return nil
}

func TestCloseDisposesOwnedOnce(t *testing.T) {
	conn := newFakeConn()
	s := New(conn)

	d := &countingDisposable{}
	s.Own(d)

	s.Close()
	s.Close()
	if d.disposals != 1 {
		t.Errorf("disposals = %d, want 1", d.disposals)
	}
}

func TestInterceptorWrapsEvents(t *testing.T) {
	conn := newFakeConn()

	seen := make(chan protocol.EventType, 2)
	ic := func(ctx context.Context, ev *protocol.Event, next func() error) error {
		seen <- ev.Type
		return next()
	}

	s := New(conn, WithInterceptor(ic), WithLocation("https://example.com/"))
	defer s.Close()
	s.Start()

	conn.push(t, protocol.EncodeEvent(&protocol.Event{
		Type:     protocol.EventNavigate,
		Location: "https://example.com/docs",
	}))

	select {
	case got := <-seen:
		if got != protocol.EventNavigate {
			t.Errorf("intercepted type = %v, want EventNavigate", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for interceptor")
	}
}

func TestSendPatchesSequencing(t *testing.T) {
	conn := newFakeConn()
	s := New(conn)
	defer s.Close()

	s.SendPatches([]protocol.Patch{protocol.NewAddClassPatch("h1", "active")})
	s.SendPatches([]protocol.Patch{protocol.NewRemoveClassPatch("h1", "active")})

	first := conn.nextFrame(t)
	second := conn.nextFrame(t)
	if first.Patches.Seq != 1 || second.Patches.Seq != 2 {
		t.Errorf("sequences = %d, %d, want 1, 2", first.Patches.Seq, second.Patches.Seq)
	}
}
