package transport

import (
	"net/http"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/service"
	"github.com/Mubashir-4041/event-compliance-monitor/pkg/predicthq"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard service.DashboardService
}

func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) ListEvents(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	if err := h.dashboard.EnsureLoaded(c.Request.Context(), sess); err != nil {
		writeFetchError(c, err)
		return
	}

	var f entity.EventFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.dashboard.View(sess, f))
}

func (h *DashboardHandler) GetEvent(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	id, ok := eventID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.dashboard.GetEvent(sess, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *DashboardHandler) CreateEvent(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req entity.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.dashboard.AddEvent(c.Request.Context(), sess, &req, nil)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *DashboardHandler) SetLicense(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	id, ok := eventID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req entity.SetLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.dashboard.SetLicensed(c.Request.Context(), sess, id, *req.Licensed)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *DashboardHandler) ToggleLicense(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	id, ok := eventID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.dashboard.ToggleLicense(c.Request.Context(), sess, id)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	count, err := h.dashboard.Refresh(c.Request.Context(), sess, predicthq.Query{
		Country:  c.Query("country"),
		Category: c.Query("category"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		writeFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func (h *DashboardHandler) Map(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	if err := h.dashboard.EnsureLoaded(c.Request.Context(), sess); err != nil {
		writeFetchError(c, err)
		return
	}

	var f entity.EventFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	points := h.dashboard.MapView(sess, f)
	c.JSON(http.StatusOK, gin.H{"count": len(points), "points": points})
}
