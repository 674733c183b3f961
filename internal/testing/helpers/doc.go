// Package helpers provides request builders and response assertions for
// activities API tests.
//
// # Building requests
//
//	req := helpers.NewRequest(t, http.MethodPost, helpers.RosterPath("signup", "Chess Club")).
//	    WithQuery("email", "student@mergington.edu").
//	    Build()
//
// # Asserting on responses
//
//	helpers.AssertStatus(t, resp, http.StatusOK)
//	helpers.AssertMessage(t, resp, "Signed up student@mergington.edu for Chess Club")
//	helpers.AssertProblemDetails(t, resp, http.StatusNotFound, model.ErrCodeNotFound)
//	helpers.AssertValidationError(t, resp, "email")
package helpers
