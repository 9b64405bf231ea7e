package router

import (
	"todos/internal/app/health"
	"todos/internal/app/todo"
	"todos/internal/gateways/websocket"
	"todos/internal/middleware"

	_ "todos/docs"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

// NewRouter builds the engine and its middleware chain. It also turns on
// gin's process-wide binding.EnableDecoderDisallowUnknownFields, so every
// JSON body bound in this process rejects fields its request type lacks.
func NewRouter(logger *zap.Logger, frontendURL string) *Router {
	binding.EnableDecoderDisallowUnknownFields = true

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.CORSMiddleware(frontendURL))
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	return &Router{Engine: engine}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine, handler)
}

func (r *Router) RegisterTodoRoutes(handler todo.Handler) {
	todo.RegisterRoutes(r.Engine, handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub) {
	websocket.RegisterRoutes(r.Engine, hub)
}

func (r *Router) RegisterSwaggerRoutes() {
	r.Engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

type Route struct {
	Method string
	Path   string
}

func (r *Router) Routes() []Route {
	var routes []Route
	for _, info := range r.Engine.Routes() {
		routes = append(routes, Route{Method: info.Method, Path: info.Path})
	}
	return routes
}
