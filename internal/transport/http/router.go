package http

import (
	"context"
	_ "embed"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"net/http"
	"time"
)

//go:embed swagger.yaml
var swaggerSpec []byte

// Pinger reports whether the backing store answers. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func NewRouter(
	ih *ItemHandler,
	logger hclog.Logger,
	corsConfig *CORSConfig,
	db Pinger,
) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Resource not found")
	})

	// Create a middleware instance
	mw := NewMiddleware(logger, corsConfig)

	// Apply global middleware
	router.Use(mw.LoggingMiddleware)
	router.Use(mw.ContentTypeMiddleware)

	// Routes without a request body
	router.HandleFunc("/api/items", ih.GetItems).Methods(http.MethodGet)
	router.HandleFunc("/api/items/{id}", ih.GetItemByID).Methods(http.MethodGet)
	router.HandleFunc("/api/items/{id}", ih.DeleteItem).Methods(http.MethodDelete)
	router.HandleFunc("/healthz", healthHandler(db)).Methods(http.MethodGet)

	// Routes that decode an item from the request body
	postRouter := router.Methods(http.MethodPost).Subrouter()
	postRouter.HandleFunc("/api/items", ih.AddItem)
	postRouter.Use(mw.DecodeItemMiddleware)

	putRouter := router.Methods(http.MethodPut).Subrouter()
	putRouter.HandleFunc("/api/items/{id}", ih.UpdateItem)
	putRouter.Use(mw.DecodeItemMiddleware)

	// Serve the embedded swagger.yaml file
	router.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(swaggerSpec)
	}).Methods(http.MethodGet)

	// Configure the Redoc middleware to point to the correct SpecURL
	swaggerOpts := middleware.RedocOpts{SpecURL: "/swagger.yaml", Title: "Shopping List API"}
	router.Handle("/docs", middleware.Redoc(swaggerOpts, nil)).Methods(http.MethodGet)

	// CORS sits outside the router so preflight requests never reach the
	// method matcher
	var h http.Handler = router
	h = mw.CORSMiddleware(h)
	h = handlers.CompressHandler(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.StandardLogger(&hclog.StandardLoggerOptions{ForceLevel: hclog.Error})),
	)(h)

	return h
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
