// Package httputil provides HTTP handler utilities for consistent error
// handling, JSON encoding/decoding, and request middleware.
package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the standardized error payload.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 OK JSON response.
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteErrorMessage writes a JSON error response with a custom kind and message.
func WriteErrorMessage(w http.ResponseWriter, status int, kind, message string) {
	WriteJSON(w, status, ErrorResponse{Error: kind, Message: message})
}

// WriteBadRequest writes a 400 error response.
func WriteBadRequest(w http.ResponseWriter, kind, message string) {
	WriteErrorMessage(w, http.StatusBadRequest, kind, message)
}

// WriteInternalError writes a 500 error response.
func WriteInternalError(w http.ResponseWriter, kind, message string) {
	WriteErrorMessage(w, http.StatusInternalServerError, kind, message)
}
