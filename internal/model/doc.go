// Package model holds the types every other layer shares: the activity
// record, the response envelopes, and the problem-details errors.
//
// # Activity
//
// Activity is the one domain entity. An activity has no name field; the
// name is the registry key, and the catalog response is a map from name
// to record:
//
//	{"Chess Club": {"description": ..., "participants": [...]}}
//
// Participants is an ordered list of unique student emails, oldest
// signup first. MaxParticipants is advisory: IsFull reports it, the
// capacity watcher warns about it, and no signup is ever rejected by
// it.
//
// # Seed Data
//
// SeedActivities returns the fixed nine-activity set the registry
// starts with. Each call returns fresh copies, so repositories and
// tests can mutate the result without cross-talk.
//
// # Errors
//
// ProblemDetails is the RFC 9457 body every non-2xx response carries,
// built through constructors (NewNotFoundError, NewValidationError,
// and friends) that keep type URLs, titles, and extension codes
// consistent. The detail member holds the sentence clients display.
package model
