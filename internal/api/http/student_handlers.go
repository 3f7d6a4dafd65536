package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muntlig-app/muntlig/internal/exam"
)

// GetTestByCodeHandler is the entry-screen lookup. An unknown code is a
// recoverable input error for the student; no session is created.
func GetTestByCodeHandler(store *exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		t, err := store.GetTestByCode(r.Context(), code)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, t)
	}
}

func StartSessionHandler(hub *exam.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := hub.Start(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, v)
	}
}

func GetViewHandler(hub *exam.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := hub.View(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, v)
	}
}

func ChooseLevelHandler(hub *exam.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Level exam.Level `json:"level"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		v, err := hub.ChooseLevel(r.Context(), chi.URLParam(r, "code"), req.Level)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, v)
	}
}

func AdvanceHandler(hub *exam.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := hub.Advance(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, v)
	}
}

// TickHandler is the browser-driven countdown step. timeUp is true on
// exactly one tick; the client shows the "time is up" notice then and
// never again.
func TickHandler(hub *exam.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, up, err := hub.Tick(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, struct {
			exam.View
			TimeUp bool `json:"timeUp"`
		}{View: v, TimeUp: up})
	}
}

func ExitSessionHandler(hub *exam.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Exit(r.Context(), chi.URLParam(r, "code")); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	}
}
