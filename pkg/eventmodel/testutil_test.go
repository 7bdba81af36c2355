package eventmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Test host types used across tests

// Document is a host object that acquires the capability by embedding.
type Document struct {
	*Node
	Path string
}

// Panel is a second host type, to check mixed host types interoperate.
type Panel struct {
	*Node
	Title string
}

// call records one listener invocation.
type call struct {
	node  string
	event string
	args  []any
}

// recorder collects listener calls in order.
type recorder struct {
	mu    sync.Mutex
	calls []call
}

// listener returns a listener that records under the given label.
func (r *recorder) listener(label string) Listener {
	return func(ctx Context, args ...any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, call{node: label, event: ctx.Event(), args: args})
	}
}

// labels returns the labels of every recorded call, in order.
func (r *recorder) labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.node
	}
	return out
}

// count returns how many calls were recorded under label.
func (r *recorder) count(label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.node == label {
			n++
		}
	}
	return n
}

// get returns the i-th recorded call.
func (r *recorder) get(i int) call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[i]
}

// quietNetwork creates a network that discards logs.
func quietNetwork(opts ...NetworkOption) *Network {
	opts = append([]NetworkOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewNetwork(opts...)
}

// nodes creates one node per ID.
func nodes(net *Network, ids ...string) []*Node {
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = net.NewNode(id, WithID(id))
	}
	return out
}

// ids returns the node IDs of emitters.
func ids(es []Emitter) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = nodeOf(e).ID()
	}
	return out
}

// testLogHandler captures log records for testing.
type testLogHandler struct {
	mu    *sync.Mutex
	buf   *bytes.Buffer
	attrs []slog.Attr
	level slog.Level
}

func newTestLogHandler() *testLogHandler {
	return &testLogHandler{
		mu:    &sync.Mutex{},
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, a := range h.attrs {
		data[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &testLogHandler{
		mu:    h.mu,
		buf:   h.buf,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
		level: h.level,
	}
}

func (h *testLogHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *testLogHandler) getRecords() []map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	var records []map[string]any
	for _, line := range bytes.Split(h.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(line, &m); err == nil {
			records = append(records, m)
		}
	}
	return records
}

// findRecord returns the first record with the given message.
func (h *testLogHandler) findRecord(msg string) map[string]any {
	for _, r := range h.getRecords() {
		if r["msg"] == msg {
			return r
		}
	}
	return nil
}

// fakeMetrics records metric calls in memory.
type fakeMetrics struct {
	mu        sync.Mutex
	triggers  []string
	hops      []int
	listeners int
	panics    int
	fallbacks []string
	edges     map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{edges: make(map[string]int)}
}

func (m *fakeMetrics) RecordTrigger(_ context.Context, event string, _ time.Duration, hops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers = append(m.triggers, event)
	m.hops = append(m.hops, hops)
}

func (m *fakeMetrics) RecordListenerCall(_ context.Context, _ string, panicked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners++
	if panicked {
		m.panics++
	}
}

func (m *fakeMetrics) RecordRootFallback(_ context.Context, event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, event)
}

func (m *fakeMetrics) RecordEdge(_ context.Context, op string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[op] += count
}

func (m *fakeMetrics) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("triggers=%v hops=%v listeners=%d panics=%d fallbacks=%v edges=%v",
		m.triggers, m.hops, m.listeners, m.panics, m.fallbacks, m.edges)
}
