package crawler

import (
	"math/rand/v2"
	"reflect"
	"strconv"
	"testing"
)

// TestFrontier tests queue ordering and deduplication.
func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("dequeues in FIFO order", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a", "b")
		f.Admit("c")

		var got []string
		for {
			url, ok := f.Next()
			if !ok {
				break
			}
			got = append(got, url)
		}
		if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Errorf("unexpected order: %q", got)
		}
	})

	t.Run("collapses duplicate seeds", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a", "a", "b", "a")
		if f.Len() != 2 {
			t.Errorf("expected 2 queued, got %d", f.Len())
		}
		if !reflect.DeepEqual(f.Pending(), []string{"a", "b"}) {
			t.Errorf("unexpected pending: %q", f.Pending())
		}
	})

	t.Run("admit rejects queued and visited URLs", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a")
		if f.Admit("a") {
			t.Error("expected queued URL to be rejected")
		}

		url, _ := f.Next()
		f.MarkVisited(url)
		if f.Admit("a") {
			t.Error("expected visited URL to be rejected")
		}
		if !f.Admit("b") {
			t.Error("expected new URL to be admitted")
		}
		if f.Admit("b") {
			t.Error("expected second admit to be a no-op")
		}
	})

	t.Run("URLs compare by exact string", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("http://example.com")
		if !f.Admit("http://example.com/") {
			t.Error("trailing slash variant should be distinct")
		}
		if !f.Admit("HTTP://example.com") {
			t.Error("case variant should be distinct")
		}
	})

	t.Run("mark visited removes a queued URL", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a", "b", "c")
		f.MarkVisited("b")

		if f.IsQueued("b") {
			t.Error("b should no longer be queued")
		}
		if !f.IsVisited("b") {
			t.Error("b should be visited")
		}
		if !reflect.DeepEqual(f.Pending(), []string{"a", "c"}) {
			t.Errorf("unexpected pending: %q", f.Pending())
		}
	})

	t.Run("mark visited is idempotent", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		f.MarkVisited("a")
		f.MarkVisited("a")

		if f.VisitedCount() != 1 {
			t.Errorf("expected 1 visited, got %d", f.VisitedCount())
		}
		if !reflect.DeepEqual(f.Visited(), []string{"a"}) {
			t.Errorf("unexpected visited: %q", f.Visited())
		}
	})

	t.Run("next on empty queue", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		if url, ok := f.Next(); ok || url != "" {
			t.Errorf("expected empty result, got %q, %v", url, ok)
		}
	})

	t.Run("instances do not share state", func(t *testing.T) {
		t.Parallel()

		first := NewFrontier()
		second := NewFrontier()
		first.Admit("a")
		first.MarkVisited("b")

		if second.Len() != 0 || second.VisitedCount() != 0 {
			t.Error("second frontier observed state of the first")
		}
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a")
		f.MarkVisited("b")

		pending := f.Pending()
		pending[0] = "changed"
		visited := f.Visited()
		visited[0] = "changed"

		if f.Pending()[0] != "a" || f.Visited()[0] != "b" {
			t.Error("frontier state was modified through a returned slice")
		}
	})
}

// TestFrontierInvariants drives a frontier with a pseudo-random sequence of
// operations and checks that queued and visited stay disjoint and that no
// URL is ever dequeued twice.
func TestFrontierInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	f := NewFrontier("u0")
	dequeued := make(map[string]bool)

	for i := 0; i < 2000; i++ {
		switch rng.IntN(3) {
		case 0:
			f.Admit("u" + strconv.Itoa(rng.IntN(50)))
		case 1:
			url, ok := f.Next()
			if !ok {
				continue
			}
			if dequeued[url] {
				t.Fatalf("url %q dequeued twice", url)
			}
			dequeued[url] = true
			f.MarkVisited(url)
		case 2:
			f.MarkVisited("u" + strconv.Itoa(rng.IntN(50)))
		}

		pending := f.Pending()
		seen := make(map[string]bool, len(pending))
		for _, url := range pending {
			if seen[url] {
				t.Fatalf("url %q queued twice", url)
			}
			seen[url] = true
			if f.IsVisited(url) {
				t.Fatalf("url %q is both queued and visited", url)
			}
		}
	}
}
