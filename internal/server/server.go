package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"ctchen222/Prompt-Benchmark/internal/api/controller"
	"ctchen222/Prompt-Benchmark/internal/api/middleware"
	"ctchen222/Prompt-Benchmark/internal/api/service"
	"ctchen222/Prompt-Benchmark/web"
)

var tracer = otel.Tracer("server")

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the services the HTTP surface is built from.
type Deps struct {
	Users        service.UserService
	Evaluations  service.EvaluationService
	ModelConfigs service.ModelConfigService
	Store        Pinger
	// StrictEvaluateAuth turns an unusable bearer on evaluate into a 401.
	StrictEvaluateAuth bool
}

type Server struct {
	engine      *gin.Engine
	evaluations service.EvaluationService
	store       Pinger
	upgrader    websocket.Upgrader
}

func NewServer(deps Deps) *Server {
	s := &Server{
		engine:      gin.New(),
		evaluations: deps.Evaluations,
		store:       deps.Store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.registerRoutes(deps)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes(deps Deps) {
	userController := controller.NewUserController(deps.Users)
	evaluationController := controller.NewEvaluationController(deps.Evaluations)
	modelConfigController := controller.NewModelConfigController(deps.ModelConfigs)

	r := s.engine
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.CORS())

	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)

	r.POST("/register", userController.Register)
	r.POST("/login", userController.Login)

	api := r.Group("/api")
	api.POST("/evaluate", middleware.OptionalAuth(deps.Users, deps.StrictEvaluateAuth), evaluationController.Evaluate)
	api.GET("/evaluations", middleware.RequireAuth(deps.Users), evaluationController.History)

	r.GET("/ws/evaluate", middleware.QueryToken(), middleware.OptionalAuth(deps.Users, deps.StrictEvaluateAuth), s.handleWebSocket)

	admin := r.Group("/admin", middleware.RequireAuth(deps.Users), middleware.RequireAdmin())
	admin.GET("/models", modelConfigController.List)
	admin.GET("/models/:id", modelConfigController.Get)
	admin.POST("/models", modelConfigController.Create)
	admin.DELETE("/models/:id", modelConfigController.Delete)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
