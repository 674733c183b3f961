// Package testdb stands up isolated SurrealDB environments for tests
// that need the real activity schema, unique name index included.
//
// Database-backed tests are opt-in: when TEST_DB_URL is not set the
// tests that use this package skip, so a plain `go test ./...` run needs
// no running SurrealDB.
package testdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mergington/activities/internal/database"
)

// TestDB is a connected handle on a namespace-isolated database with the
// activity schema applied. Namespaces are unique per call to New, so
// parallel tests never see each other's rosters.
type TestDB struct {
	DB        database.Database
	Namespace string
	Database  string
	t         *testing.T
}

var (
	migrateOnce  sync.Once
	migrations   []string
	migrationErr error

	nsCounter atomic.Int64
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testConfig() database.Config {
	return database.Config{
		URL:      envOr("TEST_DB_URL", "ws://localhost:8000"),
		User:     envOr("TEST_DB_USER", "root"),
		Password: envOr("TEST_DB_PASSWORD", "root"),
	}
}

func uniqueNamespace() string {
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), nsCounter.Add(1))
}

// findMigrationDir locates the migrations directory. ACTIVITIES_ROOT
// overrides the search; otherwise the lookup walks up from the package
// under test, which sits at most a few levels below the module root.
func findMigrationDir() string {
	if root := os.Getenv("ACTIVITIES_ROOT"); root != "" {
		return filepath.Join(root, "migrations")
	}

	dir := "migrations"
	for i := 0; i < 5; i++ {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		dir = filepath.Join("..", dir)
	}
	return ""
}

// loadMigrations reads every .surql file once, in lexical order.
func loadMigrations() ([]string, error) {
	migrateOnce.Do(func() {
		dir := findMigrationDir()
		if dir == "" {
			migrationErr = fmt.Errorf("migrations directory not found; set ACTIVITIES_ROOT")
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			migrationErr = fmt.Errorf("reading %s: %w", dir, err)
			return
		}

		var names []string
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".surql") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			content, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				migrationErr = fmt.Errorf("reading %s: %w", name, err)
				return
			}
			migrations = append(migrations, string(content))
		}
	})

	return migrations, migrationErr
}

// New connects to the test server, carves out a fresh namespace and
// applies the activity schema. The calling test skips when TEST_DB_URL
// is unset and fails on any setup error. Close drops the namespace.
func New(t *testing.T) *TestDB {
	t.Helper()

	if os.Getenv("TEST_DB_URL") == "" {
		t.Skip("TEST_DB_URL not set; skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := testConfig()
	cfg.Namespace = uniqueNamespace()
	cfg.Database = "activities_test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: connect: %v", err)
	}

	migs, err := loadMigrations()
	if err != nil {
		_ = db.Close()
		t.Fatalf("testdb: %v", err)
	}
	for i, mig := range migs {
		if err := db.Execute(ctx, mig, nil); err != nil {
			_ = db.Close()
			t.Fatalf("testdb: migration %d: %v", i+1, err)
		}
	}

	return &TestDB{
		DB:        db,
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
		t:         t,
	}
}

// Close drops the test namespace with its data, then closes the
// connection. Cleanup is best effort.
func (tdb *TestDB) Close() {
	if tdb.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.DB.Execute(ctx, "REMOVE NAMESPACE "+tdb.Namespace, nil)
	_ = tdb.DB.Close()
}

// Ctx returns a context with the default per-operation budget for test
// queries. Cancellation is registered on the test's cleanup list.
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}

// MustExec runs a statement, failing the test on error. Used to stage
// records outside the repository API.
func (tdb *TestDB) MustExec(query string, vars map[string]interface{}) {
	tdb.t.Helper()
	if err := tdb.DB.Execute(tdb.Ctx(), query, vars); err != nil {
		tdb.t.Fatalf("testdb: exec %q: %v", query, err)
	}
}

// MustQuery runs a query and returns its raw per-statement results,
// failing the test on error. Used to assert on stored records directly.
func (tdb *TestDB) MustQuery(query string, vars map[string]interface{}) []interface{} {
	tdb.t.Helper()
	results, err := tdb.DB.Query(tdb.Ctx(), query, vars)
	if err != nil {
		tdb.t.Fatalf("testdb: query %q: %v", query, err)
	}
	return results
}
