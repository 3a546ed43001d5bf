package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response wrapper every API route uses. Extra keys ride in
// the payload maps passed to OK.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON writes an arbitrary payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"success":false,"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

// OK writes a success envelope merged with the given extra keys.
func OK(w http.ResponseWriter, status int, extra map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range extra {
		payload[k] = v
	}
	JSON(w, status, payload)
}

// Error writes a failure envelope.
func Error(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, Envelope{Success: false, Error: msg, Details: details})
}
