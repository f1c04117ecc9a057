package neo4j

import (
	"context"
	"encoding/json"
	"fmt"

	driver "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/graphview/pkg/cache"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/observability"
)

// DefaultLimit is the neighbor limit used when a caller passes zero.
const DefaultLimit = 100

// Config configures a [Source].
type Config struct {
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`

	// IDProperty names the node property used as vertex id. Empty means
	// element ids.
	IDProperty string `toml:"id_property"`
}

// Executor runs a read query and returns all records.
type Executor interface {
	Run(ctx context.Context, query string, params map[string]any) ([]*driver.Record, error)
}

// Source reads payloads through an Executor, optionally caching neighbor
// fetches.
type Source struct {
	exec   Executor
	cfg    Config
	cache  cache.Cache
	keyer  cache.Keyer
	closer func(context.Context) error
}

// Open connects to Neo4j and verifies connectivity.
func Open(ctx context.Context, cfg Config) (*Source, error) {
	drv, err := driver.NewDriverWithContext(cfg.URI, driver.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := drv.VerifyConnectivity(ctx); err != nil {
		_ = drv.Close(ctx)
		return nil, fmt.Errorf("connecting to neo4j: %w", err)
	}
	src := New(&driverExecutor{driver: drv, database: cfg.Database}, cfg)
	src.closer = drv.Close
	return src, nil
}

// New creates a source over an existing executor.
func New(exec Executor, cfg Config) *Source {
	return &Source{exec: exec, cfg: cfg, cache: cache.NewNullCache(), keyer: cache.NewDefaultKeyer()}
}

// WithCache caches neighbor fetches in c for [cache.NeighborsTTL].
func (s *Source) WithCache(c cache.Cache, keyer cache.Keyer) *Source {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	s.cache, s.keyer = c, keyer
	return s
}

// Close releases the driver, if the source owns one.
func (s *Source) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}

// Query runs an arbitrary read query and converts its records.
func (s *Source) Query(ctx context.Context, cypher string, params map[string]any) (graph.Payload, error) {
	records, err := s.exec.Run(ctx, cypher, params)
	if err != nil {
		return graph.Payload{}, fmt.Errorf("query: %w", err)
	}
	return PayloadFromRecords(records, s.cfg.IDProperty), nil
}

// Neighbors returns a vertex together with up to limit adjacent
// relationships and the vertices at their other ends.
func (s *Source) Neighbors(ctx context.Context, vertexID string, limit int) (graph.Payload, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	key := s.keyer.NeighborsKey(s.cfg.URI, vertexID, limit)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		if p, err := graph.UnmarshalPayload(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "neighbors")
			return p, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "neighbors")

	query, params := neighborsQuery(s.cfg.IDProperty, vertexID, limit)
	p, err := s.Query(ctx, query, params)
	if err != nil {
		return graph.Payload{}, fmt.Errorf("neighbors of %s: %w", vertexID, err)
	}

	if data, err := json.Marshal(p); err == nil {
		if s.cache.Set(ctx, key, data, cache.NeighborsTTL) == nil {
			observability.Cache().OnCacheSet(ctx, "neighbors", len(data))
		}
	}
	return p, nil
}

func neighborsQuery(idProperty, vertexID string, limit int) (string, map[string]any) {
	params := map[string]any{"id": vertexID, "limit": int64(limit)}
	match := "elementId(n) = $id"
	if idProperty != "" {
		match = "toString(n[$prop]) = $id"
		params["prop"] = idProperty
	}
	query := "MATCH (n) WHERE " + match + "\n" +
		"OPTIONAL MATCH (n)-[r]-(m)\n" +
		"RETURN n, r, m LIMIT $limit"
	return query, params
}

type driverExecutor struct {
	driver   driver.DriverWithContext
	database string
}

func (e *driverExecutor) Run(ctx context.Context, query string, params map[string]any) ([]*driver.Record, error) {
	opts := []driver.ExecuteQueryConfigurationOption{driver.ExecuteQueryWithReadersRouting()}
	if e.database != "" {
		opts = append(opts, driver.ExecuteQueryWithDatabase(e.database))
	}
	res, err := driver.ExecuteQuery(ctx, e.driver, query, params, driver.EagerResultTransformer, opts...)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}
