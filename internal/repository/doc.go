// Package repository stores activities and their rosters.
//
// Two interchangeable registries implement the service's
// ActivityRepository interface: MemoryActivityRepository, an RWMutex
// guarded map that is the development default and forgets everything on
// restart, and ActivityRepository, which keeps the registry in
// SurrealDB. The service layer cannot tell them apart; both hand back
// (nil, nil) for a missing activity on reads and database.ErrNotFound
// or database.ErrDuplicate from roster mutations.
//
// The SurrealDB registry never interpolates input into SurrealQL; every
// value travels as a $variable binding. Roster edits run as a single
// conditional UPDATE so the membership check and the write cannot be
// split by a concurrent request, and the startup seed goes through one
// AtomicBatch so a half-seeded registry cannot occur. Record timestamps
// come from time::now() on the database side.
//
// Typical mutation handling:
//
//	updated, err := repo.AddParticipant(ctx, "Chess Club", "amy@mergington.edu")
//	if errors.Is(err, database.ErrDuplicate) {
//	    // amy is already on the roster
//	}
package repository
