package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/TaskForge-io/taskforge/internal/auth"
	"github.com/TaskForge-io/taskforge/internal/config"
	"github.com/TaskForge-io/taskforge/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Api struct {
	Config config.Config
	Router *chi.Mux

	db     *sql.DB
	tokens *auth.TokenManager
	users  *store.UserStore
	todos  *store.TodoStore
}

func NewApi(cfg config.Config, db *sql.DB) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, errors.New("Must have at least a port to start API")
	}
	if cfg.Auth.Secret == "" {
		return nil, errors.New("auth secret is not configured")
	}

	api := &Api{
		Config: cfg,
		Router: chi.NewRouter(),
		db:     db,
		tokens: auth.NewTokenManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute),
		users:  store.NewUserStore(db),
		todos:  store.NewTodoStore(db),
	}

	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://*.local:*", "http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	requireUser := auth.RequireUser(api.tokens, api.users)

	r.Get("/", api.Root)
	r.Get("/heartbeat", api.Heartbeat)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", api.CreateUser)
		r.Get("/", api.ListUsers)
		r.Get("/{userID}", api.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Put("/{userID}", api.UpdateUser)
			r.Delete("/{userID}", api.DeleteUser)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", api.CreateAccessToken)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/refresh_token", api.RefreshAccessToken)
		})
	})

	r.Route("/todos", func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/", api.CreateTodo)
		r.Get("/", api.ListTodos)
		r.Patch("/{todoID}", api.UpdateTodo)
		r.Delete("/{todoID}", api.DeleteTodo)
	})
}

func (api *Api) Serve() {
	addr := fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort)
	log.Printf("Starting API server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, api.Router))
}

func (api *Api) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello world"})
}

func (api *Api) Heartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
