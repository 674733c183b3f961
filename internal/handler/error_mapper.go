package handler

import (
	"errors"

	"github.com/mergington/activities/internal/database"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/service"
)

// MapServiceError translates sentinels from the service and database
// layers into problem responses. Handlers route every failure they do
// not special-case through here, so adding a sentinel means adding one
// case to this switch.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, service.ErrActivityNameRequired):
		return model.NewValidationError([]model.FieldError{{Field: "activity", Message: err.Error()}})
	case errors.Is(err, service.ErrEmailRequired):
		return model.NewValidationError([]model.FieldError{{Field: "email", Message: err.Error()}})

	case errors.Is(err, service.ErrActivityNotFound):
		return model.NewNotFoundError("Activity")

	// Roster conflicts are client mistakes, not server state problems.
	case errors.Is(err, service.ErrAlreadySignedUp),
		errors.Is(err, service.ErrNotSignedUp):
		return model.NewBadRequestError(err.Error())

	case errors.Is(err, database.ErrConnection),
		errors.Is(err, database.ErrQuery):
		return model.NewDatabaseError()

	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext names the failing operation in the detail
// of a 500, where the generic message tells the caller nothing. Mapped
// statuses below 500 pass through untouched.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status >= 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
