package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/replyforge/replyforge/internal/action"
	"github.com/replyforge/replyforge/internal/api/handler"
	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/auth"
	"github.com/replyforge/replyforge/internal/brand"
	"github.com/replyforge/replyforge/internal/embedding"
	"github.com/replyforge/replyforge/internal/events"
	"github.com/replyforge/replyforge/internal/metrics"
	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/telemetry"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger    handler.DBPinger
	Version     string
	OpenAPISpec []byte

	Verifier    auth.Verifier
	ServiceKeys middleware.KeyChecker

	Brands     brand.Repository
	Actions    action.Repository
	Replies    reply.Repository
	Embeddings embedding.Repository

	Automation handler.AutomationClient
	Poster     handler.TweetPoster
	Analyzer   handler.WebsiteAnalyzer
	Publisher  events.Publisher

	SecureCookies      bool
	AllowedOrigins     []string
	RateLimitPerMinute int
	Tracing            bool
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	if deps.Tracing {
		r.Use(telemetry.Middleware("replyforge"))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Gate(deps.Verifier))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", metrics.Handler())

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec, deps.Version)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	guard := brand.NewGuard(deps.Brands)
	sessionHandler := handler.NewSessionHandler(deps.SecureCookies)
	brandHandler := handler.NewBrandHandler(deps.Brands, guard, deps.Analyzer)
	actionHandler := handler.NewActionHandler(deps.Actions, guard, deps.Publisher)
	replyHandler := handler.NewAutoReplyHandler(deps.Replies, guard, deps.Automation, deps.Poster, deps.Publisher)
	embeddingHandler := handler.NewEmbeddingHandler(deps.Embeddings, guard)
	composioHandler := handler.NewComposioHandler(deps.Poster)

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(deps.RateLimitPerMinute, time.Minute))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/session", sessionHandler.Register)
			r.Post("/logout", sessionHandler.Logout)
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", brandHandler.List)
			r.Post("/", brandHandler.Create)
			r.Get("/{brandId}", brandHandler.Get)
			r.Post("/{brandId}/analyze-website", brandHandler.AnalyzeWebsite)
		})

		r.Route("/actions", func(r chi.Router) {
			r.Post("/create", actionHandler.Create)
			r.Get("/list", actionHandler.List)
			r.Patch("/{actionId}/status", actionHandler.UpdateStatus)
		})

		r.Route("/auto-replies", func(r chi.Router) {
			r.Post("/find-and-reply", replyHandler.FindAndReply)
			r.Post("/post", replyHandler.Post)
			r.Get("/posted", replyHandler.ListPosted)
		})

		r.Post("/embeddings/store", embeddingHandler.Store)

		r.With(middleware.RequireServiceKey(deps.ServiceKeys)).
			Post("/composio/post-tweet", composioHandler.PostTweet)
	})

	return r
}
