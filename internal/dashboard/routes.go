package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, h *handler) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/projects", h.listProjects)
	api.POST("/projects", h.createProject)
	api.GET("/projects/:id", h.getProject)
	api.DELETE("/projects/:id", h.deleteProject)

	api.PATCH("/projects/:id/milestones", h.editMilestone)
	api.PUT("/projects/:id/install", h.setInstall)
	api.PUT("/projects/:id/done", h.setDone)
	api.POST("/projects/:id/complete", h.completePhase)
	api.POST("/projects/:id/contact", h.logContact)
	api.PUT("/projects/:id/value", h.setValue)
	api.PUT("/projects/:id/cadence", h.setCadence)

	api.GET("/projects/:id/calendar.ics", h.calendar)
	api.GET("/projects/:id/email", h.email)
	api.GET("/export.xlsx", h.exportWorkbook)
	api.GET("/export.json", h.exportJSON)

	api.GET("/ask", h.ask)
	api.GET("/kpi", h.kpi)
}
