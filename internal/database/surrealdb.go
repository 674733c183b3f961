package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB is the production Database implementation. It holds a single
// connection from the official driver; the driver serializes requests on
// it, so one instance is shared by every repository.
type SurrealDB struct {
	db  *surrealdb.DB
	cfg Config
}

// NewSurrealDB returns an unconnected instance. Call Connect before use.
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{cfg: cfg}
}

// Connect dials the endpoint, signs in as the configured root user and
// selects the namespace and database that hold the activity table. A
// half-open connection is closed before any error is returned.
func (s *SurrealDB) Connect(ctx context.Context) error {
	db, err := surrealdb.FromEndpointURLString(ctx, s.cfg.URL)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrConnection, s.cfg.URL, err)
	}

	if _, err := db.SignIn(ctx, &surrealdb.Auth{
		Username: s.cfg.User,
		Password: s.cfg.Password,
	}); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin as %q: %v", ErrConnection, s.cfg.User, err)
	}

	if err := db.Use(ctx, s.cfg.Namespace, s.cfg.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use %s/%s: %v", ErrConnection, s.cfg.Namespace, s.cfg.Database, err)
	}

	s.db = db
	return nil
}

// Close releases the connection. Safe to call on an instance that never
// connected.
func (s *SurrealDB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close(context.Background())
}

// Ping verifies the connection is still usable. The health endpoint runs
// this on every probe, so it stays off the activity table; a version
// round trip is enough to prove the socket is alive.
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("%w: not connected", ErrConnection)
	}
	if _, err := s.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query runs one or more statements and returns one entry per statement:
// a []interface{} of row maps for SELECT-style statements, or the bare
// value for scalar returns. Any statement-level failure aborts the whole
// call with ErrQuery; callers never see partial results.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: not connected", ErrConnection)
	}

	res, err := surrealdb.Query[interface{}](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if res == nil {
		return nil, nil
	}

	out := make([]interface{}, 0, len(*res))
	for i, stmt := range *res {
		if stmt.Status != "OK" {
			if stmt.Error != nil {
				return nil, fmt.Errorf("%w: statement %d: %s", ErrQuery, i, stmt.Error.Message)
			}
			return nil, fmt.Errorf("%w: statement %d: status %s", ErrQuery, i, stmt.Status)
		}
		out = append(out, stmt.Result)
	}
	return out, nil
}

// QueryOne runs a single-statement query and returns its first row.
// Returns ErrNotFound when the statement matched nothing; the repository
// maps that onto its own misses (unknown activity, roster miss).
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	switch first := results[0].(type) {
	case nil:
		return nil, ErrNotFound
	case []interface{}:
		if len(first) == 0 {
			return nil, ErrNotFound
		}
		return first[0], nil
	default:
		// Scalar and object statements (RETURN, INFO) come back whole.
		return first, nil
	}
}

// Execute runs a statement and discards its rows.
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}
