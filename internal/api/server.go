package api

import (
	"net/http"
	"time"

	chatapi "github.com/futig/genai-toolkit/internal/api/chat"
	extractapi "github.com/futig/genai-toolkit/internal/api/extract"
	inferenceapi "github.com/futig/genai-toolkit/internal/api/inference"
	"github.com/futig/genai-toolkit/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups the route handlers served by the API
type Handlers struct {
	Extract   *extractapi.Handler
	Inference *inferenceapi.Handler
	Chat      *chatapi.Handler
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	extractapi.RegisterRoutes(r, h.Extract)
	inferenceapi.RegisterRoutes(r, h.Inference)
	chatapi.RegisterRoutes(r, h.Chat)

	return r
}
