package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/muntlig-app/muntlig/internal/exam"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain errors onto status codes. Everything here is
// recoverable from the caller's side; nothing is retried server-side.
func writeErr(w http.ResponseWriter, err error) {
	var verr *exam.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, exam.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, exam.ErrNoSession):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, exam.ErrWrongPhase), errors.Is(err, exam.ErrBadLevel):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
