// Package session hosts the per-client event loop that drives navigation
// components: it reads client events off a websocket, fans navigation
// out to a location broadcaster, routes clicks to hydrated handlers,
// ships patch batches back, and exposes the module-call transport the
// scroll helper loads through.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/vango-go/navkit/pkg/location"
	"github.com/vango-go/navkit/pkg/protocol"
	"github.com/vango-go/navkit/pkg/vdom"
)

// Conn is the slice of *websocket.Conn the session needs. Tests
// substitute in-memory fakes.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Handler is a hydrated event callback. Handlers run on the session's
// event loop goroutine.
type Handler func(ctx context.Context) error

// Disposable is anything the session must tear down when it closes.
type Disposable interface {
	Dispose(ctx context.Context) error
}

// EventInterceptor wraps event processing. Interceptors run on the
// event loop in registration order; each must call next to continue the
// chain.
type EventInterceptor func(ctx context.Context, ev *protocol.Event, next func() error) error

// Session is one connected client. All component state the session owns
// is touched only on its event loop goroutine; use Dispatch to get
// there from anywhere else.
type Session struct {
	conn   Conn
	logger *slog.Logger
	loc    *location.Broadcaster

	events     chan *protocol.Event
	dispatchCh chan func()
	done       chan struct{}
	closed     atomic.Bool
	closeOnce  sync.Once

	// Write path. The read/event loops and module callers share the
	// connection.
	writeMu sync.Mutex
	sendSeq atomic.Uint64

	// Module RPC.
	callID  atomic.Uint64
	pending map[uint64]chan moduleResult
	pendMu  sync.Mutex

	// Hydration state, built before Start and read-only afterwards.
	handlers map[string]Handler
	hidSeq   int

	owned        []Disposable
	interceptors []EventInterceptor
}

type config struct {
	logger       *slog.Logger
	initialLoc   string
	queueSize    int
	interceptors []EventInterceptor
}

// Option configures a session at construction.
type Option func(*config)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithLocation sets the initial absolute location, normally taken from
// the HTTP request that upgraded to this session.
func WithLocation(loc string) Option {
	return func(c *config) { c.initialLoc = loc }
}

// WithEventQueue sets the inbound event queue capacity.
func WithEventQueue(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithInterceptor appends event interceptors (metrics, tracing). They
// run in the order given.
func WithInterceptor(ics ...EventInterceptor) Option {
	return func(c *config) { c.interceptors = append(c.interceptors, ics...) }
}

// New creates a session over an established connection. Call Hydrate to
// register component handlers, then Start.
func New(conn Conn, opts ...Option) *Session {
	cfg := config{
		logger:    slog.Default(),
		queueSize: 64,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		conn:         conn,
		logger:       cfg.logger,
		loc:          location.NewBroadcaster(cfg.initialLoc),
		events:       make(chan *protocol.Event, cfg.queueSize),
		dispatchCh:   make(chan func(), cfg.queueSize),
		done:         make(chan struct{}),
		pending:      make(map[uint64]chan moduleResult),
		handlers:     make(map[string]Handler),
		interceptors: cfg.interceptors,
	}
}

// Location returns the session's location stream. Components subscribe
// to it; the session feeds it from client navigate events.
func (s *Session) Location() *location.Broadcaster { return s.loc }

// Own registers a component for teardown when the session closes.
func (s *Session) Own(d Disposable) {
	s.owned = append(s.owned, d)
}

// Hydrate walks a rendered tree, assigns hydration IDs to interactive
// nodes, and registers their click handlers. It must be called before
// Start; the handler table is read-only once the loops run.
func (s *Session) Hydrate(root *vdom.VNode) {
	if root == nil {
		return
	}
	if root.IsInteractive() {
		if root.HID == "" {
			s.hidSeq++
			root.HID = fmt.Sprintf("h%d", s.hidSeq)
		}
		if h, ok := root.Props["onclick"].(func(context.Context) error); ok {
			s.handlers[root.HID] = h
		}
	}
	for _, child := range root.Children {
		s.Hydrate(child)
	}
}

// Start runs the read and event loops.
func (s *Session) Start() {
	go s.readLoop()
	go s.eventLoop()
}

// Dispatch schedules fn onto the event loop. Safe from any goroutine;
// a closed session drops the call.
func (s *Session) Dispatch(fn func()) {
	select {
	case s.dispatchCh <- fn:
	case <-s.done:
	}
}

// readLoop reads frames until the connection dies. Module results are
// resolved here rather than queued, so a handler awaiting a module call
// on the event loop cannot deadlock against its own reply.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := protocol.Decode(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			continue
		}
		if frame.Type != protocol.FrameEvent {
			s.logger.Warn("unexpected frame from client", "type", frame.Type)
			continue
		}

		ev := frame.Event
		if ev.Type == protocol.EventModuleResult {
			s.resolveCall(ev)
			continue
		}

		select {
		case s.events <- ev:
		case <-s.done:
			return
		default:
			s.logger.Warn("event queue full, dropping", "type", ev.Type.String())
		}
	}
}

// eventLoop serially processes events and dispatched functions.
func (s *Session) eventLoop() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)

		case fn := <-s.dispatchCh:
			fn()

		case <-s.done:
			return
		}
	}
}

func (s *Session) handleEvent(ev *protocol.Event) {
	ctx := context.Background()

	next := func() error { return s.processEvent(ctx, ev) }
	for i := len(s.interceptors) - 1; i >= 0; i-- {
		ic := s.interceptors[i]
		inner := next
		next = func() error { return ic(ctx, ev, inner) }
	}

	if err := next(); err != nil {
		s.logger.Error("event failed",
			"type", ev.Type.String(),
			"hid", ev.HID,
			"error", err)
	}
}

func (s *Session) processEvent(ctx context.Context, ev *protocol.Event) error {
	switch ev.Type {
	case protocol.EventNavigate:
		s.loc.Set(ev.Location)
		return nil

	case protocol.EventClick:
		h, ok := s.handlers[ev.HID]
		if !ok {
			return fmt.Errorf("session: no handler for hid %q", ev.HID)
		}
		return h(ctx)

	default:
		return fmt.Errorf("session: unhandled event type %s", ev.Type)
	}
}

// SendPatches ships a patch batch to the client with the next sequence
// number. A closed session drops the batch silently.
func (s *Session) SendPatches(patches []protocol.Patch) {
	if len(patches) == 0 {
		return
	}
	pf := &protocol.PatchesFrame{
		Seq:     s.sendSeq.Add(1),
		Patches: patches,
	}
	if err := s.writeFrame(protocol.EncodePatches(pf)); err != nil {
		s.logger.Error("patch write error", "error", err)
		s.Close()
	}
}

func (s *Session) writeFrame(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Close tears the session down: stops the loops, closes the
// connection, fails pending module calls, and disposes owned
// components. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		if err := s.conn.Close(); err != nil {
			s.logger.Debug("connection close error", "error", err)
		}

		for _, d := range s.owned {
			if err := d.Dispose(context.Background()); err != nil {
				s.logger.Error("component dispose error", "error", err)
			}
		}
	})
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool { return s.closed.Load() }

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} { return s.done }
