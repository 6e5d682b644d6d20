package transport

import (
	"html/template"
	"net/http"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/transport/middleware"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Gateway   *GatewayHandler
	Dashboard *DashboardHandler
	Views     *ViewHandler
}

func InitRoutes(h Handlers, sessions database.SessionRepository, requestTimeout time.Duration) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.AccessLog(logrus.StandardLogger(), "/health", "/metrics"))
	router.Use(middleware.Timeout(requestTimeout))

	router.SetHTMLTemplate(template.Must(web.Templates()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"sessions": sessions.Len(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Gateway route, stateless
	router.GET("/api/events", h.Gateway.GetEvents)

	// JSON API, per session
	api := router.Group("/api/dashboard", middleware.Session(sessions))
	{
		api.GET("/events", h.Dashboard.ListEvents)
		api.POST("/events", h.Dashboard.CreateEvent)
		api.GET("/events/:id", h.Dashboard.GetEvent)
		api.PUT("/events/:id/license", h.Dashboard.SetLicense)
		api.POST("/events/:id/license/toggle", h.Dashboard.ToggleLicense)
		api.POST("/refresh", h.Dashboard.Refresh)
		api.GET("/map", h.Dashboard.Map)
	}

	// Web interface routes
	pages := router.Group("/", middleware.Session(sessions))
	{
		pages.GET("/", h.Views.Index)
		pages.GET("/map", h.Views.Map)
		pages.GET("/events/new", h.Views.NewEvent)
		pages.POST("/events", h.Views.CreateEvent)
		pages.GET("/events/:id", h.Views.EventDetail)
		pages.POST("/events/:id/license", h.Views.ToggleLicense)
		pages.POST("/refresh", h.Views.Refresh)
		pages.GET("/screenshots/:file", h.Views.Screenshot)
	}

	return router
}
