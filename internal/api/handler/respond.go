package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskdeck/internal/core/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError is the single place where the core error taxonomy becomes
// transport status codes. Unrecognized errors (store failures included) are
// a generic 500 with no detail.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotAuthenticated):
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrForbidden):
		http.Error(w, "Not authorized", http.StatusForbidden)
	case errors.Is(err, apperr.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, apperr.ErrAlreadyInitialized):
		http.Error(w, "Admin already exists", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrEmailTaken):
		http.Error(w, "Email already in use", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrInvalidInput):
		http.Error(w, "Invalid request", http.StatusBadRequest)
	default:
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
