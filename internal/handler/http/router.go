package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JoshMith/Techwave-Backend/internal/service"
	"github.com/JoshMith/Techwave-Backend/pkg/health"
	"github.com/JoshMith/Techwave-Backend/pkg/middleware"
)

// RouterConfig carries the router's dependencies and toggles.
type RouterConfig struct {
	SearchService  *service.SearchService
	CatalogService *service.CatalogService
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	ServiceName    string
	CORS           middleware.CORSConfig
	TracingEnabled bool
}

// NewRouter creates the chi router with all routes and middleware mounted.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	if cfg.TracingEnabled {
		r.Use(middleware.Tracing(cfg.ServiceName))
	}
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	searchHandler := NewSearchHandler(cfg.SearchService, cfg.Logger)
	productHandler := NewProductHandler(cfg.CatalogService, cfg.Logger)
	categoryHandler := NewCategoryHandler(cfg.CatalogService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", searchHandler.Search)
		r.Get("/search/suggestions", searchHandler.Suggestions)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Post("/", productHandler.CreateProduct)
			r.Get("/{id}", productHandler.GetProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.ListCategories)
			r.Post("/", categoryHandler.CreateCategory)
			r.Get("/{id}", categoryHandler.GetCategory)
		})
	})

	return r
}
