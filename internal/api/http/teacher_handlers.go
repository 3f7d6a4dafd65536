package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muntlig-app/muntlig/internal/exam"
)

func ListTestsHandler(store *exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tests, err := store.GetTests(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, tests)
	}
}

// SaveTestHandler creates or fully rewrites a test. The editor submits
// the whole object; ID, code and creation time are assigned here when
// absent. A rejected save persists nothing and the instructor stays in
// the editor.
func SaveTestHandler(store *exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t exam.Test
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := exam.Normalize(&t); err != nil {
			writeErr(w, err)
			return
		}
		if t.ID == "" {
			t.ID = exam.NewID()
		}
		for i := range t.Questions {
			if t.Questions[i].ID == "" {
				t.Questions[i].ID = exam.NewID()
			}
		}
		if t.Code == "" {
			code, err := store.GenerateCode(r.Context())
			if err != nil {
				writeErr(w, err)
				return
			}
			t.Code = code
		}
		if t.CreatedAt == "" {
			t.CreatedAt = exam.Now()
		}
		if err := store.SaveTest(r.Context(), t); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, t)
	}
}

func DeleteTestHandler(store *exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "testID")
		if err := store.DeleteTest(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok", "id": id})
	}
}

func GenerateCodeHandler(store *exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := store.GenerateCode(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"code": code})
	}
}
