package api

import (
	"encoding/json"
	"net/http"
)

// Error is the JSON error envelope returned by all failing endpoints.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in the envelope.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeInternal   = "internal_error"
	ErrCodeUpstream   = "upstream_error"
)

// writeJSON serialises v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends an Error envelope.
func writeError(w http.ResponseWriter, e Error) {
	writeJSON(w, e.Status, e)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, Error{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message})
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, Error{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message})
}

func writeInternalError(w http.ResponseWriter) {
	writeError(w, Error{Status: http.StatusInternalServerError, Code: ErrCodeInternal, Message: "internal server error"})
}

func writeUpstreamError(w http.ResponseWriter, message string) {
	writeError(w, Error{Status: http.StatusBadGateway, Code: ErrCodeUpstream, Message: message})
}
