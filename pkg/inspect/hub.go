package inspect

import (
	"log/slog"
	"sync"
	"time"
)

// Record is one event as seen by the inspector.
type Record struct {
	Seq    uint64    `json:"seq"`
	Type   string    `json:"type"`
	Kind   string    `json:"kind"`
	Target string    `json:"target"`
	Time   time.Time `json:"time"`
}

// Record kinds.
const (
	KindNative    = "native"
	KindLifecycle = "lifecycle"
)

// Hub fans records out to subscribers. It is safe for concurrent use.
type Hub struct {
	mu       sync.Mutex
	seq      uint64
	subs     map[*subscriber]struct{}
	history  []Record
	snapshot string

	buffer     int
	maxHistory int
	logger     *slog.Logger
}

type subscriber struct {
	ch   chan Record
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithBuffer sets the per-subscriber buffer (default 64). A subscriber
// whose buffer is full is dropped.
func WithBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithHistory sets how many records are kept for new subscribers
// (default 100).
func WithHistory(n int) HubOption {
	return func(h *Hub) {
		if n >= 0 {
			h.maxHistory = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHub creates an empty Hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subs:       make(map[*subscriber]struct{}),
		buffer:     64,
		maxHistory: 100,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish assigns the next sequence number to rec, keeps it in the history
// and hands it to every subscriber without blocking.
func (h *Hub) Publish(rec Record) Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	rec.Seq = h.seq
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}

	if h.maxHistory > 0 {
		h.history = append(h.history, rec)
		if over := len(h.history) - h.maxHistory; over > 0 {
			h.history = append([]Record(nil), h.history[over:]...)
		}
	}

	for sub := range h.subs {
		select {
		case sub.ch <- rec:
		default:
			delete(h.subs, sub)
			sub.close()
			h.logger.Warn("inspector subscriber dropped", "seq", rec.Seq)
		}
	}
	return rec
}

// Subscribe returns the current history and a channel of later records.
// The channel is closed by cancel or when the subscriber falls behind.
func (h *Hub) Subscribe() (history []Record, records <-chan Record, cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan Record, h.buffer)}
	h.subs[sub] = struct{}{}
	history = append([]Record(nil), h.history...)

	cancel = func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		sub.close()
	}
	return history, sub.ch, cancel
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// History returns a copy of the kept records.
func (h *Hub) History() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Record(nil), h.history...)
}

// SetSnapshot stores the latest tree HTML.
func (h *Hub) SetSnapshot(html string) {
	h.mu.Lock()
	h.snapshot = html
	h.mu.Unlock()
}

// Snapshot returns the latest tree HTML.
func (h *Hub) Snapshot() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshot
}
