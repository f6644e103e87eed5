package location

import "testing"

func TestBroadcasterCurrent(t *testing.T) {
	b := NewBroadcaster("https://example.com/")
	if got := b.Current(); got != "https://example.com/" {
		t.Errorf("Current() = %q, want %q", got, "https://example.com/")
	}

	b.Set("https://example.com/about")
	if got := b.Current(); got != "https://example.com/about" {
		t.Errorf("Current() = %q, want %q", got, "https://example.com/about")
	}
}

func TestBroadcasterNotifies(t *testing.T) {
	b := NewBroadcaster("https://example.com/")
	var seen []string
	unsubscribe := b.Subscribe(func(loc string) {
		seen = append(seen, loc)
	})
	defer unsubscribe()

	b.Set("https://example.com/a")
	b.Set("https://example.com/b")

	want := []string{"https://example.com/a", "https://example.com/b"}
	if len(seen) != len(want) {
		t.Fatalf("seen %d notifications, want %d: %v", len(seen), len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestBroadcasterSilentOnSameLocation(t *testing.T) {
	b := NewBroadcaster("https://example.com/a")
	calls := 0
	unsubscribe := b.Subscribe(func(string) { calls++ })
	defer unsubscribe()

	b.Set("https://example.com/a")
	if calls != 0 {
		t.Errorf("calls = %d, want 0 for unchanged location", calls)
	}
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	b := NewBroadcaster("https://example.com/")
	calls := 0
	unsubscribe := b.Subscribe(func(string) { calls++ })

	unsubscribe()
	// Idempotent.
	unsubscribe()

	b.Set("https://example.com/after")
	if calls != 0 {
		t.Errorf("calls = %d, want 0 after unsubscribe", calls)
	}
}

func TestBroadcasterMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster("https://example.com/")
	a, c := 0, 0
	unsubA := b.Subscribe(func(string) { a++ })
	unsubC := b.Subscribe(func(string) { c++ })
	defer unsubA()
	defer unsubC()

	b.Set("https://example.com/next")
	if a != 1 || c != 1 {
		t.Errorf("subscriber calls = (%d, %d), want (1, 1)", a, c)
	}

	unsubA()
	b.Set("https://example.com/more")
	if a != 1 {
		t.Errorf("unsubscribed subscriber called: a = %d, want 1", a)
	}
	if c != 2 {
		t.Errorf("remaining subscriber calls = %d, want 2", c)
	}
}
