// Package server assembles the HTTP route table.
package server

import (
	"net/http"
	"time"

	"cyclehub-backend/internal/handlers"
	customMiddleware "cyclehub-backend/internal/middleware"
	"cyclehub-backend/internal/models"
	"cyclehub-backend/internal/slack"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log      *zap.Logger
	Metrics  MetricsHandler
	Notifier slack.Notifier
	DB       handlers.Pinger

	Bikes      handlers.DocumentLister
	Employees  handlers.DocumentLister
	Cycles     handlers.CycleStore
	AddedItems handlers.AddedItemStore
	Users      handlers.UserStore

	RequestTimeout time.Duration
	// AdminJWTSecret guards PATCH /users/admin/{id} when non-empty.
	AdminJWTSecret string
}

// MetricsHandler records requests and serves the exposition endpoint.
type MetricsHandler interface {
	customMiddleware.RequestObserver
	Handler() http.Handler
}

func NewRouter(d Deps) http.Handler {
	catalogHandler := handlers.NewCatalogHandler(d.Bikes, d.Employees, d.Log)
	cycleHandler := handlers.NewCycleHandler(d.Cycles, d.Log)
	addedItemHandler := handlers.NewAddedItemHandler(d.AddedItems, d.Log)
	userHandler := handlers.NewUserHandler(d.Users, d.Notifier, d.Log)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Log)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestLogger(d.Log))
	r.Use(customMiddleware.Metrics(d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Get("/", healthHandler.Live)
	r.Get("/health", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(d.RequestTimeout))

		r.Get("/bikes", catalogHandler.ListBikes)
		r.Get("/testimonials", catalogHandler.ListTestimonials)

		r.Get("/cycles", cycleHandler.ListCycles)
		r.Post("/cycles", cycleHandler.CreateCycle)
		r.Get("/cycles/{id}", cycleHandler.GetCycle)
		r.Put("/cycles/{id}", cycleHandler.UpdateCycle)
		r.Delete("/cycles/{id}", cycleHandler.DeleteCycle)

		r.Get("/added-item", addedItemHandler.ListAddedItems)
		r.Post("/added-item", addedItemHandler.CreateAddedItem)
		r.Delete("/added-item/{id}", addedItemHandler.DeleteAddedItem)

		r.Post("/users", userHandler.CreateUser)
		r.Get("/users/{email}", userHandler.GetUser)
		r.Get("/users/admin/{email}", userHandler.GetAdminStatus)

		if d.AdminJWTSecret != "" {
			r.With(
				customMiddleware.JWTAuth(d.AdminJWTSecret),
				customMiddleware.RequireRole(models.RoleAdmin),
			).Patch("/users/admin/{id}", userHandler.MakeAdmin)
		} else {
			d.Log.Warn("PATCH /users/admin/{id} is unauthenticated; set ADMIN_JWT_SECRET to require an admin token")
			r.Patch("/users/admin/{id}", userHandler.MakeAdmin)
		}
	})

	return r
}
