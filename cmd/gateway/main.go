package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/muntlig-app/muntlig/internal/api/http"
	auth "github.com/muntlig-app/muntlig/internal/auth/middleware"
	"github.com/muntlig-app/muntlig/internal/config"
	"github.com/muntlig-app/muntlig/internal/db"
	"github.com/muntlig-app/muntlig/internal/exam"
	"github.com/muntlig-app/muntlig/internal/kv"
	"github.com/muntlig-app/muntlig/internal/rbac"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- Persistence ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var records kv.Store
	switch cfg.DBDriver {
	case "memory":
		records = kv.NewMemStore()
	default:
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			// Degrade rather than die: reads come back empty, writes
			// succeed silently, the exam keeps running in memory.
			log.Printf("db open failed, running without persistence: %v", err)
			records = kv.NopStore{}
		} else {
			records = kv.NewSQLStore(dbh)
		}
	}
	store := exam.NewStore(records)
	hub := exam.NewHub(store, cfg.ServerTimer)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.AdminUser, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Instructor surface (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("test:list")).
			Get("/tests", api.ListTestsHandler(store))
		pr.With(rbac.Require("test:create")).
			Post("/tests", api.SaveTestHandler(store))
		pr.With(rbac.Require("test:delete")).
			Delete("/tests/{testID}", api.DeleteTestHandler(store))
		pr.With(rbac.RequireAny("test:code", "test:create")).
			Post("/tests/code", api.GenerateCodeHandler(store))
	})

	// Student surface: no login, a valid test code is the credential.
	r.Get("/tests/code/{code}", api.GetTestByCodeHandler(store))
	r.Route("/sessions/{code}", func(sr chi.Router) {
		sr.Post("/start", api.StartSessionHandler(hub))
		sr.Get("/", api.GetViewHandler(hub))
		sr.Post("/level", api.ChooseLevelHandler(hub))
		sr.Post("/advance", api.AdvanceHandler(hub))
		sr.Post("/tick", api.TickHandler(hub))
		sr.Delete("/", api.ExitSessionHandler(hub))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s, server timer=%v)", cfg.HTTPAddr, cfg.DBDriver, cfg.ServerTimer)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
