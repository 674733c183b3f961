package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mergington/activities/internal/model"
)

// WriteJSON encodes data under the given status. A nil data sends the
// status and headers alone.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError sends a problem response; it pairs with WriteJSON so every
// handler exit goes through one of the two.
func WriteError(w http.ResponseWriter, err *model.ProblemDetails) {
	err.WriteJSON(w)
}
