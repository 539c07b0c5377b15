package transporthttp

import (
	"encoding/json"
	"net/http"

	"example.com/incidents-api/internal/domain"
)

// APIError is the error body for every failing route: a human-readable
// message, plus per-field details on validation failures so a form UI can
// highlight each invalid field.
type APIError struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, message string, errs map[string][]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIError{Message: message, Errors: errs})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fieldErrorMap(errs []domain.FieldError) map[string][]string {
	m := make(map[string][]string, len(errs))
	for _, fe := range errs {
		m[fe.Field] = append(m[fe.Field], fe.Msg)
	}
	return m
}
