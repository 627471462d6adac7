package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sabordecasa/api/internal/config"
	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/handler"
	mw "github.com/sabordecasa/api/internal/middleware"
	"github.com/sabordecasa/api/internal/service"
	"github.com/sabordecasa/api/internal/store"
	"github.com/sabordecasa/api/internal/ws"
)

// New creates a Chi router with all application routes wired up. The
// storefront endpoints are public; everything under /admin requires a
// JWT.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, monitor *store.Monitor) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // storefront dev server
			"http://localhost:5174", // admin dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/admin", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Public storefront routes
	menuHandler := handler.NewMenuHandler(queries)
	r.Route("/menu", menuHandler.RegisterRoutes)

	storeHandler := handler.NewStoreHandler(queries, monitor, hub)
	r.Route("/store", storeHandler.RegisterPublicRoutes)

	feeHandler := handler.NewDeliveryFeeHandler(queries, hub)
	r.Route("/delivery-fee", feeHandler.RegisterPublicRoutes)

	checkoutService := service.NewCheckoutService(
		queries,
		pool,
		func(db database.DBTX) service.CheckoutStore {
			return database.New(db)
		},
		monitor.Open,
		cfg.StoreName,
		cfg.StorePhone,
	)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, hub)
	r.Route("/checkout", checkoutHandler.RegisterRoutes)

	// Admin routes (require authentication)
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		categoryHandler := handler.NewCategoryHandler(queries, hub)
		r.Route("/categories", categoryHandler.RegisterRoutes)

		productHandler := handler.NewProductHandler(queries, hub)
		r.Route("/products", func(r chi.Router) {
			productHandler.RegisterRoutes(r)

			optionHandler := handler.NewOptionHandler(queries, hub)
			r.Route("/{productID}/options", optionHandler.RegisterRoutes)
		})

		orderHandler := handler.NewOrderHandler(queries, hub)
		r.Route("/orders", orderHandler.RegisterRoutes)

		customerHandler := handler.NewCustomerHandler(queries, hub)
		r.Route("/customers", customerHandler.RegisterRoutes)

		r.Route("/delivery-fees", feeHandler.RegisterAdminRoutes)

		r.Route("/store", storeHandler.RegisterAdminRoutes)
	})

	return r
}
