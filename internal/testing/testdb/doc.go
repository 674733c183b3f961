// Package testdb manages SurrealDB connections for database-backed
// tests of the activity registry.
//
// # Setup
//
// Each test takes a fresh, migrated namespace and drops it on cleanup:
//
//	func TestRoster(t *testing.T) {
//	    tdb := testdb.New(t)
//	    t.Cleanup(tdb.Close)
//
//	    repo := repository.NewActivityRepository(tdb.DB)
//	    ...
//	}
//
// New skips the test when TEST_DB_URL is unset. TEST_DB_USER and
// TEST_DB_PASSWORD default to root/root, matching a local
// `surreal start` instance.
//
// # Direct statements
//
// MustExec stages records behind the repository's back and MustQuery
// reads them back, which lets tests assert on stored state rather than
// on what the repository reports:
//
//	tdb.MustExec(`CREATE activity SET name = $name, ...`, vars)
//	rows := tdb.MustQuery(`SELECT participants FROM activity`, nil)
//
// # Contexts
//
// tdb.Ctx() hands out contexts with a 10 second budget; their cancel
// functions run with the test's cleanup.
package testdb
