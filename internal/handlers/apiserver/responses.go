package apiserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"social-go/internal/services"
)

// ErrorResponse is the generic error payload for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSONResponse sends data as a JSON response with the given status.
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON response: %v", err)
		}
	}
}

// writeJSONError sends an error message as a JSON response.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONResponse(w, statusCode, ErrorResponse{Error: message})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an internal error and its details
// stay out of the response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrDoesNotExist):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrAlreadyExists):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrPermissionDenied):
		writeJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrAlreadyHandled):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrAlreadyActivated):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSONError(w, "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, services.ErrNotActive):
		writeJSONError(w, "account is not activated", http.StatusUnauthorized)
	default:
		log.Printf("Internal error handling request: %v", err)
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

// pathID parses a numeric path variable. A missing or malformed value
// returns (0, false) after writing a 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		writeJSONError(w, "missing path parameter: "+name, http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		writeJSONError(w, "invalid path parameter: "+name, http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

// decodeJSONBody decodes the request body into dst, writing a 400 on
// malformed input.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
