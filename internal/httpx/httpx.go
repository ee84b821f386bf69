// Package httpx holds the JSON response helpers and the error sentinels
// shared by every HTTP handler. Error bodies always have the shape
// {"error": "<message>"}.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrNotFound marks a referenced record or document that does not exist.
// Handlers translate it to 404.
var ErrNotFound = errors.New("not found")

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// StatusFor maps a service-layer error onto an HTTP status: NotFound is a
// client problem, everything else an internal failure.
func StatusFor(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
