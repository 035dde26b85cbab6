package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/projecthub/config"
	"github.com/projecthub/projecthub/internal/handler"
	"github.com/projecthub/projecthub/internal/middleware"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	projectHandler *handler.ProjectHandler
	healthHandler  *handler.HealthHandler
	cacheHandler   *handler.CacheHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	project *handler.ProjectHandler,
	health *handler.HealthHandler,
	cache *handler.CacheHandler,
	jwtMw *middleware.JWTMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		userHandler:    user,
		projectHandler: project,
		healthHandler:  health,
		cacheHandler:   cache,
		jwtMw:          jwtMw,
		Config:         cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if !r.Config.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityLoggingMiddleware())
	router.Use(middleware.ContextMiddleware("http", r.Config.App.Timeout))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			r.authRoutes(v1)
			r.userRoutes(v1)
			r.projectRoutes(v1)
			r.cacheRoutes(v1)
		}
	}

	return router
}

// cacheRoutes defines cache management routes; mutations are admin-only
func (r *Router) cacheRoutes(rg *gin.RouterGroup) {
	cache := rg.Group("/cache")
	{
		cache.GET("/health", r.cacheHandler.Health)

		protected := cache.Group("")
		protected.Use(r.jwtMw.RequireAuth(), r.jwtMw.RequireAdmin())
		{
			protected.POST("/invalidate", r.cacheHandler.InvalidateProjects)
			protected.DELETE("/clear", r.cacheHandler.ClearAll)
		}
	}
}
