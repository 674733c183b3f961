package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mergington/activities/internal/metrics"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/service"
)

// ActivityHandler handles activity catalog and roster HTTP requests
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// RegisterRoutes registers activity routes on the given mux
func (h *ActivityHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /activities", h.List)
	mux.HandleFunc("POST /activities/{name}/signup", h.Signup)
	mux.HandleFunc("DELETE /activities/{name}/unregister", h.Unregister)
}

// List returns the full activity catalog keyed by activity name.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.List(r.Context())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list activities"))
		return
	}

	WriteJSON(w, http.StatusOK, activities)
}

// Signup adds a student to an activity roster. The activity name comes from
// the URL path and the student email from the email query parameter.
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	email := strings.TrimSpace(r.URL.Query().Get("email"))

	activity, err := h.activityService.Signup(r.Context(), name, email)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(activityLabel(name, err), "error").Inc()
		h.writeRosterError(w, err, name, email)
		return
	}

	metrics.SignupsTotal.WithLabelValues(name, "success").Inc()
	metrics.RosterSize.WithLabelValues(name).Set(float64(len(activity.Participants)))
	if activity.IsFull() {
		metrics.SignupsOverCapacity.WithLabelValues(name).Inc()
		slog.Warn("roster at or over capacity",
			"activity", name,
			"participants", len(activity.Participants),
			"max_participants", activity.MaxParticipants)
	}

	WriteJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

// Unregister removes a student from an activity roster.
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	email := strings.TrimSpace(r.URL.Query().Get("email"))

	activity, err := h.activityService.Unregister(r.Context(), name, email)
	if err != nil {
		metrics.UnregistersTotal.WithLabelValues(activityLabel(name, err), "error").Inc()
		h.writeRosterError(w, err, name, email)
		return
	}

	metrics.UnregistersTotal.WithLabelValues(name, "success").Inc()
	metrics.RosterSize.WithLabelValues(name).Set(float64(len(activity.Participants)))

	WriteJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

// writeRosterError maps roster mutation errors to problem responses. The
// conflict cases name the student and activity in the detail so clients can
// surface the message directly; everything else goes through the shared
// mapper.
func (h *ActivityHandler) writeRosterError(w http.ResponseWriter, err error, name, email string) {
	switch {
	case errors.Is(err, service.ErrAlreadySignedUp):
		WriteError(w, model.NewBadRequestError(fmt.Sprintf("%s is already signed up for %s", email, name)))
	case errors.Is(err, service.ErrNotSignedUp):
		WriteError(w, model.NewBadRequestError(fmt.Sprintf("%s is not registered for %s", email, name)))
	default:
		WriteError(w, MapServiceError(err))
	}
}

// activityLabel keeps the activity label set bounded. Roster conflicts imply
// the activity was verified to exist, so its name is safe to record; any
// earlier failure maps to "unknown" so arbitrary path segments cannot mint
// new label values.
func activityLabel(name string, err error) string {
	switch {
	case err == nil,
		errors.Is(err, service.ErrAlreadySignedUp),
		errors.Is(err, service.ErrNotSignedUp):
		return name
	default:
		return "unknown"
	}
}

// Root redirects the bare site root to the embedded signup page.
func Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}
