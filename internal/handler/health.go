package handler

import (
	"net/http"
	"time"
)

// Health reports service liveness. It takes no dependencies so the probe
// stays meaningful even when storage is unavailable.
func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
