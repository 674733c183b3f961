// Package service holds the roster rules of the activities API.
//
// ActivityService sits between the HTTP handlers and the storage
// backends. It owns input validation (blank names and emails never
// reach a repository), the existence check that tells an unknown
// activity apart from a roster conflict, and the translation of storage
// sentinels into the package's own error values.
//
// The service defines the ActivityRepository interface it needs rather
// than importing a concrete store, so the SurrealDB repository and the
// in-memory registry plug in interchangeably and tests can substitute a
// fake with canned failures.
//
// Handlers match service failures by sentinel:
//
//	updated, err := svc.Signup(ctx, "Chess Club", "amy@mergington.edu")
//	if errors.Is(err, service.ErrAlreadySignedUp) {
//	    // 400 with a message naming the student
//	}
package service
