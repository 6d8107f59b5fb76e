// Package server wires handlers into the chi router and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"erms/auth"
	"erms/events"
	"erms/handlers"
	"erms/middleware"
	"erms/models"
	"erms/store"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	DB          *gorm.DB
	Store       *store.Store
	Auth        *auth.Service
	Events      events.Publisher
	Log         *zap.Logger
	CORSOrigins []string
}

func NewRouter(d Deps) http.Handler {
	validator := handlers.NewValidator()
	userHandler := handlers.NewUserHandler(d.Store, d.Auth, validator, d.Log)
	projectHandler := handlers.NewProjectHandler(d.Store, d.Events, validator, d.Log)
	assignmentHandler := handlers.NewAssignmentHandler(d.Store, d.Events, validator, d.Log)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Log)

	authenticate := middleware.Authenticate(d.Auth, d.Log)
	managerOnly := middleware.RequireRole(models.RoleManager)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.StripSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	router.Get("/", healthHandler.Root)
	router.Get("/health", healthHandler.Health)

	router.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/token", userHandler.Token)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", userHandler.Me)
			r.With(managerOnly).Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Get("/{id}/capacity", userHandler.Capacity)
		})
	})

	router.Route("/projects", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", projectHandler.List)
		r.Get("/{id}", projectHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(managerOnly)
			r.Post("/", projectHandler.Create)
			r.Delete("/{id}", projectHandler.Delete)
		})
	})

	router.Route("/assignments", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", assignmentHandler.List)
		r.Get("/{id}", assignmentHandler.Get)
		r.With(managerOnly).Post("/", assignmentHandler.Create)
	})

	return router
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
