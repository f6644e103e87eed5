package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-go/navkit/pkg/navlink"
	"github.com/vango-go/navkit/pkg/protocol"
	"github.com/vango-go/navkit/pkg/session"
	"github.com/vango-go/navkit/pkg/urlmatch"
	"github.com/vango-go/navkit/pkg/vdom"
)

// testApp builds a one-link navbar. It runs on server goroutines, so
// failures panic rather than calling into testing.T.
func testApp(base *url.URL) AppFunc {
	return func(sess *session.Session) *vdom.VNode {
		link := navlink.New(
			navlink.WithBase(base),
			navlink.WithMatch(urlmatch.MatchPrefix),
			navlink.WithScrollRuntime(sess),
		)
		if err := link.SetAttributes(map[string]any{"href": "/docs", "class": "nav-item"}); err != nil {
			panic(err)
		}
		link.SetChildren("Docs")
		if err := link.Mount(sess.Location(), nil); err != nil {
			panic(err)
		}
		sess.Own(link)
		return vdom.Nav(link.Render())
	}
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	base, err := url.Parse("https://example.com/")
	if err != nil {
		t.Fatalf("url.Parse error = %v", err)
	}

	s, err := New(testApp(base), append([]Option{WithBaseURL(base)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestIndexRendersActiveLink(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/docs/install")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body error = %v", err)
	}
	if !strings.Contains(string(body), `class="nav-item active"`) {
		t.Errorf("body missing active class:\n%s", body)
	}
}

func TestIndexRendersInactiveLink(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/about")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body error = %v", err)
	}
	if strings.Contains(string(body), "nav-item active") {
		t.Errorf("body has active class off-route:\n%s", body)
	}
	if !strings.Contains(string(body), `class="nav-item"`) {
		t.Errorf("body missing base class:\n%s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		_, ts := newTestServer(t, WithMetrics(true))
		res, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatalf("GET /metrics error = %v", err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", res.StatusCode)
		}
	})

	t.Run("disabled serves shell", func(t *testing.T) {
		_, ts := newTestServer(t)
		res, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatalf("GET /metrics error = %v", err)
		}
		defer res.Body.Close()
		if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("Content-Type = %q, want text/html shell", ct)
		}
	})
}

func TestWebSocketSessionLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if res != nil {
		res.Body.Close()
	}

	// Drive a navigation through the live session, then hang up.
	frame := protocol.EncodeEvent(&protocol.Event{
		Type:     protocol.EventNavigate,
		Location: "https://example.com/docs",
	})
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	s, err := New(testApp(base), WithAddr("127.0.0.1:0"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
