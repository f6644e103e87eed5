package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/vango-go/navkit/pkg/interop"
	"github.com/vango-go/navkit/pkg/protocol"
)

// ErrSessionClosed is returned by module calls and writes after the
// session has been torn down.
var ErrSessionClosed = errors.New("session: closed")

// ErrHandleReleased is returned when invoking a module handle after its
// release.
var ErrHandleReleased = errors.New("session: module handle released")

// The session is the module transport navigation links load the scroll
// helper through.
var _ interop.Runtime = (*Session)(nil)

type moduleResult struct {
	ok     bool
	errMsg string
}

// LoadModule implements interop.Runtime: it asks the client to import
// the module at path and blocks until the client reports the outcome.
// The load's call ID doubles as the client-side module ID.
func (s *Session) LoadModule(ctx context.Context, path string) (interop.Handle, error) {
	id := s.callID.Add(1)
	err := s.call(ctx, id, &protocol.ModuleCommand{
		Op:     protocol.ModuleLoad,
		CallID: id,
		Path:   path,
	})
	if err != nil {
		return nil, fmt.Errorf("session: load module %q: %w", path, err)
	}
	return &moduleHandle{sess: s, id: id}, nil
}

// call sends a module command and awaits the client's matching
// ModuleResult.
func (s *Session) call(ctx context.Context, id uint64, cmd *protocol.ModuleCommand) error {
	ch := make(chan moduleResult, 1)
	s.pendMu.Lock()
	s.pending[id] = ch
	s.pendMu.Unlock()

	if err := s.writeFrame(protocol.EncodeModuleCommand(cmd)); err != nil {
		s.dropCall(id)
		return err
	}

	select {
	case res := <-ch:
		if !res.ok {
			return fmt.Errorf("session: module %s failed: %s", cmd.Op, res.errMsg)
		}
		return nil
	case <-ctx.Done():
		s.dropCall(id)
		return ctx.Err()
	case <-s.done:
		s.dropCall(id)
		return ErrSessionClosed
	}
}

// resolveCall delivers a client ModuleResult to its waiter. Runs on the
// read loop. Unknown call IDs are stale (the waiter gave up) and are
// dropped.
func (s *Session) resolveCall(ev *protocol.Event) {
	s.pendMu.Lock()
	ch, ok := s.pending[ev.CallID]
	delete(s.pending, ev.CallID)
	s.pendMu.Unlock()

	if !ok {
		s.logger.Debug("stale module result", "call_id", ev.CallID)
		return
	}
	ch <- moduleResult{ok: ev.OK, errMsg: ev.ErrMsg}
}

func (s *Session) dropCall(id uint64) {
	s.pendMu.Lock()
	delete(s.pending, id)
	s.pendMu.Unlock()
}

// moduleHandle is a loaded client-side module. It is created by
// LoadModule and owned by exactly one ModuleRef.
type moduleHandle struct {
	sess     *Session
	id       uint64
	released atomic.Bool
}

// Invoke calls the named export with the arguments JSON-encoded, and
// waits for the client to report completion.
func (h *moduleHandle) Invoke(ctx context.Context, fn string, args ...any) error {
	if h.released.Load() {
		return ErrHandleReleased
	}

	argsJSON := []byte("[]")
	if len(args) > 0 {
		var err error
		argsJSON, err = json.Marshal(args)
		if err != nil {
			return fmt.Errorf("session: encode args for %s: %w", fn, err)
		}
	}

	id := h.sess.callID.Add(1)
	return h.sess.call(ctx, id, &protocol.ModuleCommand{
		Op:       protocol.ModuleInvoke,
		CallID:   id,
		ModuleID: h.id,
		Fn:       fn,
		Args:     string(argsJSON),
	})
}

// Release disposes the module on the client. Repeated calls are no-ops,
// and releasing against an already closed session succeeds: the client
// side is gone either way.
func (h *moduleHandle) Release(ctx context.Context) error {
	if h.released.Swap(true) {
		return nil
	}

	id := h.sess.callID.Add(1)
	err := h.sess.call(ctx, id, &protocol.ModuleCommand{
		Op:       protocol.ModuleRelease,
		CallID:   id,
		ModuleID: h.id,
	})
	if errors.Is(err, ErrSessionClosed) {
		return nil
	}
	return err
}
