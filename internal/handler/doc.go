// Package handler is the HTTP edge of the activities API.
//
// ActivityHandler owns the catalog and roster endpoints and registers
// them on a ServeMux with method-qualified patterns:
//
//	GET    /activities
//	POST   /activities/{name}/signup
//	DELETE /activities/{name}/unregister
//
// Health and Root need no dependencies and are plain functions wired in
// cmd/server.
//
// Successful roster mutations answer with a MessageResponse naming the
// student and activity, exactly the sentence the signup page shows.
// Every failure becomes an RFC 9457 problem document: handlers either
// build one directly for conflicts they want to phrase themselves, or
// pass the service error to MapServiceError. No handler writes to the
// ResponseWriter except through WriteJSON and WriteError.
package handler
