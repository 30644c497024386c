package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crewdesk/internal/adapter/http/handlers"
	"crewdesk/internal/adapter/http/middleware"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler, templateHandler *handlers.TemplateHandler) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)

		workspace := api.Group("/workspaces/:workspaceId")
		{
			workspace.POST("/tasks", taskHandler.CreateTask)
			workspace.GET("/tasks", taskHandler.ListTasks)
			workspace.GET("/tasks/:id/subtasks", taskHandler.ListSubtasks)
			workspace.PATCH("/tasks/:id", taskHandler.UpdateTask)
			workspace.POST("/tasks/:id/complete-recurring", taskHandler.CompleteRecurring)
			workspace.PUT("/tasks/:id/subtasks/order", taskHandler.ReorderSubtasks)
			workspace.DELETE("/tasks/:id", taskHandler.DeleteTask)

			workspace.POST("/templates", templateHandler.CreateTemplate)
			workspace.GET("/templates", templateHandler.ListTemplates)
			workspace.POST("/templates/:id/apply", templateHandler.ApplyTemplate)
		}
	}
}
