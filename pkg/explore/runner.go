// Package explore runs interactive exploration sessions.
//
// A session is a snapshot persisted in a [Store] under a random id. The
// [Runner] seeds a session from an initial query result and then folds
// expansion results into it: each payload is normalized, merged into the
// stored snapshot, and the newly added elements become the highlighted
// selection. Merges for one session are serialized; different sessions run
// independently.
//
// An expansion that brings no new vertex is reported through
// [Result.NothingNew] and leaves the session untouched.
package explore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	apperr "github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/highlight"
	"github.com/matzehuels/graphview/pkg/merge"
	"github.com/matzehuels/graphview/pkg/normalize"
	"github.com/matzehuels/graphview/pkg/observability"
	"github.com/matzehuels/graphview/pkg/snapshot"
)

// Source fetches the neighborhood of a vertex from a graph backend.
type Source interface {
	Neighbors(ctx context.Context, vertexID string, limit int) (graph.Payload, error)
}

// Result is the outcome of seeding or expanding a session.
type Result struct {
	SessionID        string           `json:"session_id"`
	Delta            merge.Delta      `json:"delta"`
	Report           normalize.Report `json:"report"`
	HighlightedNodes []string         `json:"highlighted_nodes"`
	HighlightedEdges []string         `json:"highlighted_edges"`
	NothingNew       bool             `json:"nothing_new"`
}

// Runner executes session operations against a store.
//
// The zero value is not usable; create runners with [NewRunner]. A Runner
// is safe for concurrent use.
type Runner struct {
	Store      Store
	Normalizer *normalize.Normalizer
	Merge      merge.Options
	Logger     *log.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewRunner creates a runner.
// If store is nil, an in-memory store is used.
// If n is nil, a normalizer with the built-in styles is used.
// If logger is nil, log.Default() is used.
func NewRunner(store Store, n *normalize.Normalizer, logger *log.Logger) *Runner {
	if store == nil {
		store = NewMemoryStore()
	}
	if n == nil {
		n = normalize.New(nil, merge.DefaultOptions().Parallel)
	}
	if logger == nil {
		logger = log.Default()
	}
	opts := merge.DefaultOptions()
	opts.Parallel = n.ParallelOptions()
	return &Runner{
		Store:      store,
		Normalizer: n,
		Merge:      opts,
		Logger:     logger,
		locks:      make(map[string]*sessionLock),
	}
}

// Start creates a session from an initial payload. The initial elements
// are not highlighted. An empty payload still creates an (empty) session.
func (r *Runner) Start(ctx context.Context, p graph.Payload) (Result, error) {
	start := time.Now()
	id := uuid.NewString()

	norm := r.Normalizer.Normalize(p)
	s := snapshot.New()
	d := merge.Merge(s, norm.Fragment, r.Merge)

	res := Result{SessionID: id, Delta: d, Report: norm.Report, NothingNew: d.NothingNew}
	err := r.Store.Save(ctx, id, s)
	if err != nil {
		err = apperr.Wrap(apperr.ErrCodeUnavailable, err, "create session")
	}
	observability.Session().OnStart(ctx, id, stats(p, norm.Report, d), time.Since(start), err)
	if err != nil {
		return Result{}, err
	}

	r.Logger.Info("started session",
		"session", id,
		"nodes", len(d.AddedNodes),
		"edges", len(d.AddedEdges),
		"dropped", norm.Report.Dropped())
	return res, nil
}

// Expand merges an expansion payload into a session.
//
// Only elements whose ids are new to the session are added. On success the
// previous highlight is cleared and the added elements are highlighted. If
// the payload has no new vertex, the session is left as it was and
// Result.NothingNew is set. Retrying the same payload is harmless.
func (r *Runner) Expand(ctx context.Context, session string, p graph.Payload) (Result, error) {
	if err := apperr.ValidateSessionID(session); err != nil {
		return Result{}, err
	}
	start := time.Now()
	unlock := r.lock(session)
	defer unlock()

	res, err := r.expand(ctx, session, p)
	observability.Session().OnExpand(ctx, session, stats(p, res.Report, res.Delta), time.Since(start), err)
	if err != nil {
		return Result{}, err
	}

	if res.NothingNew {
		r.Logger.Info("nothing new", "session", session, "vertices", len(p.Vertices))
	} else {
		r.Logger.Info("expanded session",
			"session", session,
			"added_nodes", len(res.Delta.AddedNodes),
			"added_edges", len(res.Delta.AddedEdges),
			"recurved", len(res.Delta.UpdatedEdges))
	}
	if n := len(res.Delta.Orphaned); n > 0 {
		r.Logger.Warn("skipped edges with unknown endpoints", "session", session, "count", n)
	}
	return res, nil
}

func (r *Runner) expand(ctx context.Context, session string, p graph.Payload) (Result, error) {
	s, err := r.load(ctx, session)
	if err != nil {
		return Result{}, err
	}

	norm := r.Normalizer.Normalize(p)
	res := Result{SessionID: session, Report: norm.Report}

	// A caller that gave up must not see its response merged.
	if err := ctx.Err(); err != nil {
		return res, apperr.Wrap(apperr.ErrCodeTimeout, err, "expand session %s", session)
	}

	res.Delta = merge.Merge(s, norm.Fragment, r.Merge)
	if res.Delta.NothingNew {
		res.NothingNew = true
		return res, nil
	}

	set := highlight.Apply(s, res.Delta)
	res.HighlightedNodes = set.Nodes()
	res.HighlightedEdges = set.Edges()

	if err := r.Store.Save(ctx, session, s); err != nil {
		return res, apperr.Wrap(apperr.ErrCodeUnavailable, err, "save session %s", session)
	}
	return res, nil
}

// ExpandFrom fetches the neighbors of vertexID from src and merges them
// into the session. The vertex must already be part of the session.
func (r *Runner) ExpandFrom(ctx context.Context, session string, src Source, vertexID string, limit int) (Result, error) {
	if err := apperr.ValidateVertexID(vertexID); err != nil {
		return Result{}, err
	}
	if err := apperr.ValidateLimit(limit); err != nil {
		return Result{}, err
	}
	if err := apperr.ValidateSessionID(session); err != nil {
		return Result{}, err
	}

	s, err := r.load(ctx, session)
	if err != nil {
		return Result{}, err
	}
	if !s.HasNode(vertexID) {
		return Result{}, apperr.New(apperr.ErrCodeVertexNotFound, "vertex %q is not part of session %s", vertexID, session)
	}

	r.Logger.Debug("fetching neighbors", "vertex", vertexID, "limit", limit)
	p, err := src.Neighbors(ctx, vertexID, limit)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.ErrCodeUnavailable, err, "fetch neighbors of %q", vertexID)
	}
	return r.Expand(ctx, session, p)
}

// Snapshot returns the current snapshot of a session.
func (r *Runner) Snapshot(ctx context.Context, session string) (*snapshot.Snapshot, error) {
	if err := apperr.ValidateSessionID(session); err != nil {
		return nil, err
	}
	return r.load(ctx, session)
}

// Discard deletes a session.
func (r *Runner) Discard(ctx context.Context, session string) error {
	if err := apperr.ValidateSessionID(session); err != nil {
		return err
	}
	unlock := r.lock(session)
	defer unlock()

	if err := r.Store.Delete(ctx, session); err != nil {
		return apperr.Wrap(apperr.ErrCodeUnavailable, err, "discard session %s", session)
	}
	observability.Session().OnDiscard(ctx, session)
	r.Logger.Info("discarded session", "session", session)
	return nil
}

func (r *Runner) load(ctx context.Context, session string) (*snapshot.Snapshot, error) {
	s, err := r.Store.Load(ctx, session)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return nil, apperr.Wrap(apperr.ErrCodeSessionNotFound, err, "session %s", session)
	case err != nil:
		return nil, apperr.Wrap(apperr.ErrCodeUnavailable, err, "load session %s", session)
	}
	return s, nil
}

// lock serializes operations on one session. Entries are dropped from the
// lock table once nobody holds or waits on them.
func (r *Runner) lock(session string) func() {
	r.mu.Lock()
	if r.locks == nil {
		r.locks = make(map[string]*sessionLock)
	}
	l := r.locks[session]
	if l == nil {
		l = &sessionLock{}
		r.locks[session] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, session)
		}
		r.mu.Unlock()
	}
}

func stats(p graph.Payload, rep normalize.Report, d merge.Delta) observability.MergeStats {
	return observability.MergeStats{
		Vertices:     len(p.Vertices),
		Edges:        len(p.Edges),
		Dropped:      rep.Dropped(),
		AddedNodes:   len(d.AddedNodes),
		AddedEdges:   len(d.AddedEdges),
		UpdatedEdges: len(d.UpdatedEdges),
		NothingNew:   d.NothingNew,
	}
}

// String formats a one-line summary of the result.
func (res Result) String() string {
	if res.NothingNew {
		return "nothing new"
	}
	return fmt.Sprintf("+%d nodes, +%d edges, %d recurved",
		len(res.Delta.AddedNodes), len(res.Delta.AddedEdges), len(res.Delta.UpdatedEdges))
}
