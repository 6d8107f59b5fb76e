// Package respond writes JSON bodies and FastAPI-style {"detail": ...} errors.
package respond

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Detail any `json:"detail"`
}

type messageBody struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, detail any) {
	JSON(w, status, errorBody{Detail: detail})
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, messageBody{Message: msg})
}

// Unauthorized writes a 401 with the bearer challenge header.
func Unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	Error(w, http.StatusUnauthorized, detail)
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Access denied")
}
