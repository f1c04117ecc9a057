package explore

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphview/pkg/cache"
	apperr "github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/observability"
)

func payload(vertices []string, edges ...[2]string) graph.Payload {
	var p graph.Payload
	for _, v := range vertices {
		p.Vertices = append(p.Vertices, graph.RawVertex{ID: v, Label: "person"})
	}
	for _, e := range edges {
		p.Edges = append(p.Edges, graph.RawEdge{Label: "knows", Source: e[0], Target: e[1]})
	}
	return p
}

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(NewCacheStore(c, nil, time.Hour), nil, log.New(io.Discard))
}

func TestStartAndExpand(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)

	started, err := r.Start(ctx, payload([]string{"A", "B"}, [2]string{"A", "B"}))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if started.SessionID == "" || len(started.Delta.AddedNodes) != 2 {
		t.Fatalf("Start = %+v", started)
	}

	res, err := r.Expand(ctx, started.SessionID, payload([]string{"A", "B", "C"}, [2]string{"A", "B"}, [2]string{"B", "C"}))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if res.NothingNew {
		t.Fatal("NothingNew = true, want false")
	}
	if got := strings.Join(res.HighlightedNodes, ","); got != "C" {
		t.Errorf("HighlightedNodes = %v, want [C]", res.HighlightedNodes)
	}
	if got := strings.Join(res.HighlightedEdges, ","); got != "B-knows->C" {
		t.Errorf("HighlightedEdges = %v", res.HighlightedEdges)
	}

	s, err := r.Snapshot(ctx, started.SessionID)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if s.NodeCount() != 3 || s.EdgeCount() != 2 {
		t.Errorf("stored snapshot = %d nodes, %d edges", s.NodeCount(), s.EdgeCount())
	}
	if n, _ := s.Node("C"); !n.Highlighted {
		t.Error("highlight flag not persisted")
	}
}

func TestExpandRetryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	started, _ := r.Start(ctx, payload([]string{"A"}))

	p := payload([]string{"A", "B", "C"}, [2]string{"A", "B"}, [2]string{"A", "C"})
	if _, err := r.Expand(ctx, started.SessionID, p); err != nil {
		t.Fatal(err)
	}
	again, err := r.Expand(ctx, started.SessionID, p)
	if err != nil {
		t.Fatal(err)
	}
	if !again.NothingNew {
		t.Error("retry should report NothingNew")
	}
	if again.String() != "nothing new" {
		t.Errorf("String() = %q", again.String())
	}

	s, _ := r.Snapshot(ctx, started.SessionID)
	if s.NodeCount() != 3 || s.EdgeCount() != 2 {
		t.Errorf("snapshot = %d nodes, %d edges after retry", s.NodeCount(), s.EdgeCount())
	}
	if nodes, _ := s.Highlighted(); len(nodes) != 2 {
		t.Errorf("retry changed the highlight: %v", nodes)
	}
}

func TestExpandErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, log.New(io.Discard))

	tests := []struct {
		name    string
		session string
		code    apperr.Code
	}{
		{"InvalidID", "../x", apperr.ErrCodeInvalidInput},
		{"Unknown", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", apperr.ErrCodeSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Expand(ctx, tt.session, payload([]string{"A"}))
			if !apperr.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}

	_, err := r.Expand(ctx, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", payload(nil))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, should wrap ErrSessionNotFound", err)
	}
}

func TestExpandCanceledDoesNotMerge(t *testing.T) {
	r := NewRunner(nil, nil, log.New(io.Discard))
	started, _ := r.Start(context.Background(), payload([]string{"A"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Expand(ctx, started.SessionID, payload([]string{"B"}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if !apperr.Is(err, apperr.ErrCodeTimeout) {
		t.Errorf("err = %v, want code %s", err, apperr.ErrCodeTimeout)
	}
	s, _ := r.Snapshot(context.Background(), started.SessionID)
	if s.HasNode("B") {
		t.Error("canceled expansion was merged")
	}
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r := NewRunner(store, nil, log.New(io.Discard))
	started, _ := r.Start(ctx, payload([]string{"A"}))

	if err := r.Discard(ctx, started.SessionID); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("store holds %d sessions", store.Len())
	}
	if _, err := r.Snapshot(ctx, started.SessionID); !apperr.Is(err, apperr.ErrCodeSessionNotFound) {
		t.Errorf("Snapshot after Discard err = %v", err)
	}
}

type fakeSource struct {
	payload graph.Payload
	calls   int
}

func (f *fakeSource) Neighbors(_ context.Context, vertexID string, limit int) (graph.Payload, error) {
	f.calls++
	return f.payload, nil
}

func TestExpandFrom(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, log.New(io.Discard))
	started, _ := r.Start(ctx, payload([]string{"A"}))
	src := &fakeSource{payload: payload([]string{"A", "B"}, [2]string{"A", "B"})}

	res, err := r.ExpandFrom(ctx, started.SessionID, src, "A", 10)
	if err != nil {
		t.Fatalf("ExpandFrom: %v", err)
	}
	if len(res.Delta.AddedNodes) != 1 {
		t.Errorf("added = %v", res.Delta.NodeIDs())
	}

	if _, err := r.ExpandFrom(ctx, started.SessionID, src, "Z", 10); !apperr.Is(err, apperr.ErrCodeVertexNotFound) {
		t.Errorf("unknown vertex err = %v", err)
	}
	if _, err := r.ExpandFrom(ctx, started.SessionID, src, "A", -1); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("bad limit err = %v", err)
	}
	if src.calls != 1 {
		t.Errorf("source called %d times, want 1", src.calls)
	}
}

func TestConcurrentExpandsAreSerialized(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, log.New(io.Discard))
	started, _ := r.Start(ctx, payload([]string{"hub"}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := string(rune('a' + i))
			_, _ = r.Expand(ctx, started.SessionID, payload([]string{v}, [2]string{"hub", v}))
		}(i)
	}
	wg.Wait()

	s, _ := r.Snapshot(ctx, started.SessionID)
	if s.NodeCount() != 21 || s.EdgeCount() != 20 {
		t.Errorf("snapshot = %d nodes, %d edges; lost updates", s.NodeCount(), s.EdgeCount())
	}
	if len(r.locks) != 0 {
		t.Errorf("%d session locks left behind", len(r.locks))
	}
}

type countingHooks struct {
	observability.NoopSessionHooks
	observability.NoopCacheHooks
	mu      sync.Mutex
	expands int
	sets    int
}

func (h *countingHooks) OnExpand(context.Context, string, observability.MergeStats, time.Duration, error) {
	h.mu.Lock()
	h.expands++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	h.sets++
	h.mu.Unlock()
}

func TestHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetSessionHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	ctx := context.Background()
	r := fileRunner(t)
	started, _ := r.Start(ctx, payload([]string{"A"}))
	_, _ = r.Expand(ctx, started.SessionID, payload([]string{"B"}))

	if h.expands != 1 {
		t.Errorf("OnExpand calls = %d, want 1", h.expands)
	}
	if h.sets != 2 {
		t.Errorf("OnCacheSet calls = %d, want 2", h.sets)
	}
}
