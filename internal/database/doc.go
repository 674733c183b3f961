// Package database provides SurrealDB connectivity for the Mergington
// Activities API.
//
// # Connecting
//
// The server builds one instance at startup and shares it:
//
//	db := database.NewSurrealDB(database.Config{
//	    URL:       "ws://localhost:8000",
//	    Namespace: "mergington",
//	    Database:  "activities",
//	    User:      "root",
//	    Password:  "secret",
//	})
//	if err := db.Connect(ctx); err != nil {
//	    // the API falls back to the in-memory registry
//	}
//	defer db.Close()
//
// # Querying
//
// All roster reads and edits go through Query and QueryOne with bind
// variables; no SurrealQL is ever assembled from request input:
//
//	row, err := db.QueryOne(ctx,
//	    `SELECT * FROM activity WHERE name = $name LIMIT 1`,
//	    map[string]interface{}{"name": name})
//
// QueryOne reports ErrNotFound for an empty match. Multi-statement
// writes use AtomicBatch so they commit as one transaction.
package database
