package crawler

import "sync"

// Frontier holds the crawl state: the set of visited URLs and the FIFO
// queue of URLs still to visit.
//
// A URL is in at most one of {queued, visited} at any time, and once
// visited it never re-enters the queue. URLs are compared by exact string
// equality. Admit is the only place where deduplication happens.
type Frontier struct {
	// queue holds URLs to visit, oldest first.
	queue []string

	// queued mirrors queue for constant-time membership tests.
	queued map[string]struct{}

	// visited holds every URL marked visited.
	visited map[string]struct{}

	// visitOrder records visited URLs in the order they were marked.
	visitOrder []string

	// mutex makes check-and-admit atomic.
	mutex sync.Mutex
}

// NewFrontier creates a Frontier whose queue holds the given seeds.
// Every Frontier owns freshly allocated state; duplicate seeds collapse.
func NewFrontier(seeds ...string) *Frontier {
	f := &Frontier{
		queue:      make([]string, 0, len(seeds)),
		queued:     make(map[string]struct{}, len(seeds)),
		visited:    make(map[string]struct{}),
		visitOrder: make([]string, 0),
	}

	for _, seed := range seeds {
		f.Admit(seed)
	}

	return f
}

// Admit appends url to the queue if it is neither queued nor visited.
// It reports whether the URL was added; admitting the same URL again is a no-op.
func (f *Frontier) Admit(url string) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, ok := f.visited[url]; ok {
		return false
	}
	if _, ok := f.queued[url]; ok {
		return false
	}

	f.queue = append(f.queue, url)
	f.queued[url] = struct{}{}
	return true
}

// Next removes and returns the oldest queued URL.
// The boolean is false when the queue is empty.
func (f *Frontier) Next() (string, bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}

	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	delete(f.queued, url)

	return url, true
}

// MarkVisited records url as visited. A URL that is still queued is removed
// from the queue so the two sets stay disjoint. Marking a URL twice has no
// further effect.
func (f *Frontier) MarkVisited(url string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, ok := f.visited[url]; ok {
		return
	}

	if _, ok := f.queued[url]; ok {
		delete(f.queued, url)
		for i, queued := range f.queue {
			if queued == url {
				f.queue = append(f.queue[:i], f.queue[i+1:]...)
				break
			}
		}
	}

	f.visited[url] = struct{}{}
	f.visitOrder = append(f.visitOrder, url)
}

// IsVisited reports whether url has been marked visited.
func (f *Frontier) IsVisited(url string) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	_, ok := f.visited[url]
	return ok
}

// IsQueued reports whether url is waiting in the queue.
func (f *Frontier) IsQueued(url string) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	_, ok := f.queued[url]
	return ok
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.queue)
}

// VisitedCount returns the number of visited URLs.
func (f *Frontier) VisitedCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.visited)
}

// Pending returns a copy of the queue, oldest first.
func (f *Frontier) Pending() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.queue...)
}

// Visited returns a copy of the visited URLs in the order they were marked.
func (f *Frontier) Visited() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.visitOrder...)
}
