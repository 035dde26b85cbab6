package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		users.Use(r.jwtMw.RequireAuth())
		{
			users.GET("", r.userHandler.GetAll)
			users.GET("/:id", r.userHandler.GetByID)

			// update is admin-or-self, enforced in the handler
			users.PUT("/:id", r.userHandler.Update)

			admin := users.Group("")
			admin.Use(r.jwtMw.RequireAdmin())
			{
				admin.POST("", r.userHandler.Create)
				admin.DELETE("/:id", r.userHandler.Delete)
			}
		}
	}
}
