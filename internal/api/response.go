package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Praveenjayasiri/Simple-User-Management-System/db"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/admin"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, errorResponse{Error: msg})
}

// errorStatus maps domain errors to an HTTP status and client message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, admin.ErrFieldsRequired):
		return http.StatusBadRequest, admin.ErrFieldsRequired.Error()
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, db.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username or password"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondErr(w http.ResponseWriter, err error) {
	code, msg := errorStatus(err)
	respondError(w, code, msg)
}
