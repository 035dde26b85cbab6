package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		// Public session entry points
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)

		// Refresh authenticates via the cookie, not the access token
		auth.POST("/refresh", r.authHandler.Refresh)

		protected := auth.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.GET("/me", r.authHandler.Me)
			protected.PUT("/profile", r.authHandler.UpdateProfile)
			protected.POST("/change-password", r.authHandler.ChangePassword)
		}
	}
}
