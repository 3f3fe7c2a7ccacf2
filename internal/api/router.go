package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "inkflow/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(jwtSecret string, contextHandler *ContextHandler, checkpointHandler *CheckpointHandler, migrationHandler *MigrationHandler, generateHandler *GenerateHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	// These are applied to every request.
	r.Use(middleware.RequestID) // Injects a unique request ID into the context.
	r.Use(middleware.RealIP)    // Sets the remote address to the real IP from proxy headers.
	r.Use(middleware.Logger)    // Logs the start and end of each request with useful info.
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Guest-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Public Routes ---

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// A simple health check endpoint. Crucial for container orchestration systems
	// like Kubernetes to perform liveness and readiness probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		// The response body itself is not critical, but a 200 OK status is.
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- API Version 1 Routes ---
	// All primary API endpoints are grouped under the /api/v1 prefix, behind
	// the identity middleware: every engine operation needs a resolved subject.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Identity(jwtSecret))

		// Engine operations are bounded units of work against the store, so
		// every route carries a request timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			// --- Contexts ---
			r.Put("/conversations/{conversationID}/context", contextHandler.SaveContext)
			r.Get("/conversations/{conversationID}/context", contextHandler.GetContext)

			// --- Checkpoints ---
			r.Post("/conversations/{conversationID}/checkpoints", checkpointHandler.CreateCheckpoint)
			r.Get("/conversations/{conversationID}/checkpoints", checkpointHandler.ListCheckpoints)
			r.Post("/conversations/{conversationID}/checkpoints/{checkpointID}/restore", checkpointHandler.RestoreCheckpoint)
			r.Get("/checkpoints/{checkpointID}", checkpointHandler.GetCheckpoint)
			r.Delete("/checkpoints/{checkpointID}", checkpointHandler.DeleteCheckpoint)

			// --- Migrations ---
			r.Post("/migrations", migrationHandler.Migrate)
		})

		// Generation calls out to the model and may legitimately take longer
		// than a store round trip.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(120 * time.Second))
			r.Post("/generate", generateHandler.Generate)
		})
	})

	return r
}
