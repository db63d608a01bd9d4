package http

import (
	"time"

	"todo_store/internal/http/handlers"
	"todo_store/internal/http/middleware"
	"todo_store/internal/service"
	"todo_store/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

type Deps struct {
	Todos   handlers.TodoService
	Store   handlers.Pinger
	Hub     *ws.Hub
	Tokens  *service.TokenIssuer // nil disables write protection
	Redis   *redis.Client        // nil selects the in-memory rate limiter
	Version string

	AllowedOrigin string
	RateLimit     int
	RateWindow    time.Duration
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := handlers.NewHandler(d.Todos)
	var feed handlers.SubscriberCounter
	if d.Hub != nil {
		feed = d.Hub
	}
	limiter := "memory"
	if d.Redis != nil {
		limiter = "redis"
	}
	status := handlers.NewStatusHandler(d.Store, feed, limiter, d.Version)

	r.Use(middleware.CORS(d.AllowedOrigin))
	r.Use(middleware.Metrics())

	// Status endpoints (no rate limiting)
	r.GET("/health", status.Health)
	r.GET("/healthz", status.Liveness)
	r.GET("/readyz", status.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimit := middleware.RateLimit(d.Redis, d.RateLimit, d.RateWindow)
	requireToken := middleware.RequireToken(d.Tokens)

	api := r.Group("/api/todos")
	api.Use(rateLimit)
	registerTodoRoutes(api, h, requireToken)

	// Legacy paths without the /api prefix
	legacy := r.Group("/todos")
	legacy.Use(rateLimit)
	registerTodoRoutes(legacy, h, requireToken)

	r.GET("/ws", ws.Handler(d.Hub, d.AllowedOrigin))
	r.GET("/", handlers.Landing)
}

func registerTodoRoutes(g *gin.RouterGroup, h *handlers.Handler, requireToken gin.HandlerFunc) {
	g.GET("", h.ListTodos)
	g.GET("/:id", h.GetTodo)
	g.POST("", requireToken, h.CreateTodo)
	g.PUT("/:id", requireToken, h.UpdateTodo)
	g.PATCH("/:id", requireToken, h.UpdateTodo)
	g.DELETE("/:id", requireToken, h.DeleteTodo)
}
