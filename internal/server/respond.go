package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

// Values of [Response.Status].
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response is the JSON body returned by the command routes.
type Response struct {
	Status  string `json:"status"`
	Command string `json:"command,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	AuthURL string `json:"auth_url,omitempty"`
}

// writeJSON writes data as JSON with the given status code.
//
// Headers are sent before encoding, so an encoding failure can leave a partial body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode JSON response", "error", err)
	}
}

// writeJSONError writes a [Response] carrying message with the given status code.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Status: StatusError, Error: message})
}
