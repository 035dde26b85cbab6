package router

import "github.com/gin-gonic/gin"

func (r *Router) projectRoutes(version *gin.RouterGroup) {
	projects := version.Group("/projects")
	{
		projects.Use(r.jwtMw.RequireAuth())
		{
			projects.GET("", r.projectHandler.GetAll)
			projects.GET("/:id", r.projectHandler.GetByID)
			projects.POST("", r.projectHandler.Create)

			// owner-or-admin, enforced in the service
			projects.PUT("/:id", r.projectHandler.Update)
			projects.DELETE("/:id", r.projectHandler.Delete)
		}
	}
}
