package http

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type contextKey string

// ContextKeyItem holds the decoded request body for POST and PUT
const ContextKeyItem contextKey = "item"

const maxBodyBytes = 1 << 20

// Middleware struct holds dependencies for middleware functions
type Middleware struct {
	Logger     hclog.Logger
	corsConfig *CORSConfig
}

// CORSConfig holds configuration for CORS middleware
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // Cache preflight requests
}

func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Requested-With"},
		MaxAge:         86400, // 24 hours
	}
}

// AllowAllCORSConfig lets any origin call any method with any header.
// Not for production.
func AllowAllCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"*"},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	}
}

// NewCORSConfig builds the CORS settings from the CORS_ALLOW_ALL and
// CORS_ALLOWED_ORIGINS values. An empty origin list keeps the default origin.
func NewCORSConfig(allowAll bool, allowedOrigins string) *CORSConfig {
	if allowAll {
		return AllowAllCORSConfig()
	}

	cfg := DefaultCORSConfig()
	if origins := ParseOrigins(allowedOrigins); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}
	return cfg
}

// ParseOrigins splits a comma separated origin list, dropping blanks.
func ParseOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// NewMiddleware creates a new Middleware instance
func NewMiddleware(logger hclog.Logger, corsConfig *CORSConfig) *Middleware {
	if corsConfig == nil {
		corsConfig = DefaultCORSConfig()
	}
	return &Middleware{
		Logger:     logger,
		corsConfig: corsConfig,
	}
}

func (c *CORSConfig) allows(list []string, value string) bool {
	for _, v := range list {
		if v == "*" || strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func (m *Middleware) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		cfg := m.corsConfig

		if origin == "" || !cfg.allows(cfg.AllowedOrigins, origin) {
			// If origin is not allowed, still process the request but don't set CORS headers
			next.ServeHTTP(w, r)
			return
		}

		if cfg.allows(cfg.AllowedOrigins, "*") && len(cfg.AllowedOrigins) == 1 {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		methods := strings.Join(cfg.AllowedMethods, ",")
		if cfg.allows(cfg.AllowedMethods, "*") {
			methods = "GET,POST,PUT,DELETE,OPTIONS"
		}
		w.Header().Set("Access-Control-Allow-Methods", methods)

		headers := strings.Join(cfg.AllowedHeaders, ",")
		if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" && cfg.allows(cfg.AllowedHeaders, "*") {
			headers = requested
		}
		w.Header().Set("Access-Control-Allow-Headers", headers)

		// Handle preflight requests
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if cfg.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ContentTypeMiddleware sets the Content-Type header to application/json
func (m *Middleware) ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs the incoming requests and responses
func (m *Middleware) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		m.Logger.Debug("Incoming request",
			"method", r.Method,
			"url", r.URL.Path,
			"request_id", requestID,
		)

		// Add the request ID to the response header
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.Logger.Info("Completed request",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rec.status,
			"request_id", requestID,
			"duration", time.Since(start),
		)
	})
}

// DecodeItemMiddleware decodes the item in the request body and adds it to
// the context. Field rules are checked by the service.
func (m *Middleware) DecodeItemMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var item domain.Item
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&item)
		if err != nil {
			m.Logger.Debug("Error decoding item", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid item data")
			return
		}

		// Add the decoded item to the context
		ctx := context.WithValue(r.Context(), ContextKeyItem, &item)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
