// Package database is the storage layer beneath the activity repository.
//
// It wraps the SurrealDB driver behind a small Database interface so the
// repository and the test harness never touch driver types directly.
//
// # Query Contract
//
// Query returns one entry per statement in the submitted string. For
// SELECT-style statements the entry is a []interface{} of row maps; for
// scalar statements (RETURN, INFO) it is the bare value. Statements that
// fail server-side abort the whole call with ErrQuery, so callers only
// ever iterate successful results.
//
// QueryOne narrows that to the first row of a single statement and turns
// an empty match into ErrNotFound. The conditional roster updates lean on
// this: an UPDATE whose WHERE clause matched nothing reports ErrNotFound,
// which the repository then classifies as a missing activity or a
// duplicate signup.
//
// # Transactions
//
// Multi-statement writes go through AtomicBatch, which joins statements
// into one BEGIN/COMMIT TRANSACTION query string. Statements accumulate
// in memory and commit together; there is no interactive isolation
// between Add calls. The default-catalog seed is the main user: it must
// never leave a half-created set of activities behind.
//
// # Errors
//
// Storage failures surface as one of four sentinels, checked with
// errors.Is:
//
//	if errors.Is(err, database.ErrNotFound) { ... }
//
// ErrNotFound and ErrDuplicate carry domain meaning (missing activity,
// email already on a roster); ErrConnection and ErrQuery indicate the
// store itself misbehaved and map to 503/500 at the edge.
package database

import (
	"context"
	"errors"
)

// Sentinel errors for storage outcomes. Wrap them with fmt.Errorf("%w: ...")
// to add context; check them with errors.Is.
var (
	// ErrNotFound reports that the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate reports a unique-constraint hit, such as an email that
	// is already on an activity roster.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection reports that the store is unreachable or the session
	// is no longer usable.
	ErrConnection = errors.New("database connection error")

	// ErrQuery reports a statement that the server rejected or failed.
	ErrQuery = errors.New("query error")
)

// Database is the storage handle the repository operates on. The real
// implementation is SurrealDB; tests substitute fakes that record the
// statements they receive.
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query returns one result entry per statement. See the package
	// documentation for the exact shape.
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne returns the first row of a single-statement query, or
	// ErrNotFound when the statement matched nothing.
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a statement and discards its rows.
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config carries the connection settings for SurrealDB, normally filled
// from the environment by the config package.
type Config struct {
	URL       string
	User      string
	Password  string
	Namespace string
	Database  string
}
