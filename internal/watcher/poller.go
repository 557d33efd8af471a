// internal/watcher/poller.go
package watcher

import (
	"context"
	"sync"
	"time"
)

// Poller rescans on a fixed interval and emits an event whenever the
// candidate set grew.
type Poller struct {
	interval time.Duration
	events   chan Event

	mu     sync.Mutex
	r      Rescanner
	seen   map[string]struct{}
	closed bool
}

func NewPoller(r Rescanner, interval time.Duration) *Poller {
	if interval < time.Second {
		interval = time.Second
	}
	p := &Poller{
		interval: interval,
		events:   make(chan Event, 100),
	}
	p.Swap(r)
	return p
}

func (p *Poller) Events() <-chan Event {
	return p.events
}

// Swap replaces the rescanner and takes its current candidates as the new
// baseline.
func (p *Poller) Swap(r Rescanner) {
	baseline := r.Scan()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.r = r
	p.seen = make(map[string]struct{}, len(baseline))
	for _, c := range baseline {
		p.seen[c] = struct{}{}
	}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	all := p.r.Scan()

	var fresh []string
	for _, c := range all {
		if _, ok := p.seen[c]; !ok {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) == 0 {
		return
	}

	// Only mark candidates as seen once the event is delivered. If the
	// channel is full they are reported again on the next cycle.
	select {
	case p.events <- Event{Time: time.Now(), NewCandidates: fresh, Total: len(all)}:
		for _, c := range fresh {
			p.seen[c] = struct{}{}
		}
	default:
	}
}

func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	return nil
}
