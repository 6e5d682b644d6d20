package transport

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/service"
	"github.com/Mubashir-4041/event-compliance-monitor/pkg/predicthq"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var statusOptions = []entity.StatusFilter{entity.StatusAll, entity.StatusLicensed, entity.StatusUnlicensed}

// ViewHandler serves the server-rendered dashboard pages.
type ViewHandler struct {
	dashboard      service.DashboardService
	evidence       service.EvidenceService
	maxUploadBytes int64
}

func NewViewHandler(dashboard service.DashboardService, evidence service.EvidenceService, maxUploadBytes int64) *ViewHandler {
	return &ViewHandler{
		dashboard:      dashboard,
		evidence:       evidence,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *ViewHandler) Index(c *gin.Context) {
	_, view, ok := h.loadView(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":    "Event licenses",
		"Action":   "/",
		"View":     view,
		"Statuses": statusOptions,
	})
}

func (h *ViewHandler) Map(c *gin.Context) {
	sess, view, ok := h.loadView(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "map.html", gin.H{
		"Title":    "Event map",
		"Action":   "/map",
		"View":     view,
		"Statuses": statusOptions,
		"Points":   h.dashboard.MapView(sess, view.Filter),
	})
}

// loadView performs the session's initial load and binds the filter query;
// on failure it has already rendered the error page.
func (h *ViewHandler) loadView(c *gin.Context) (*database.Session, entity.DashboardView, bool) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return nil, entity.DashboardView{}, false
	}
	if err := h.dashboard.EnsureLoaded(c.Request.Context(), sess); err != nil {
		h.renderError(c, err, true)
		return nil, entity.DashboardView{}, false
	}

	var f entity.EventFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.renderError(c, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err), false)
		return nil, entity.DashboardView{}, false
	}
	return sess, h.dashboard.View(sess, f), true
}

func (h *ViewHandler) NewEvent(c *gin.Context) {
	c.HTML(http.StatusOK, "new.html", gin.H{
		"Title": "Add event",
		"Form":  entity.CreateEventRequest{},
	})
}

func (h *ViewHandler) CreateEvent(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var req entity.CreateEventRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, req, fmt.Errorf("%w: %w", entity.ErrInvalidInput, err))
		return
	}
	if err := service.ValidateCreate(&req); err != nil {
		h.renderForm(c, req, err)
		return
	}

	shot, err := h.saveScreenshot(c, sess)
	if err != nil {
		h.renderForm(c, req, err)
		return
	}

	event, err := h.dashboard.AddEvent(c.Request.Context(), sess, &req, shot)
	if err != nil {
		h.renderForm(c, req, err)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/events/%d", event.ID))
}

// saveScreenshot returns nil when no file was attached.
func (h *ViewHandler) saveScreenshot(c *gin.Context, sess *database.Session) (*entity.Screenshot, error) {
	file, err := c.FormFile("screenshot")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidScreenshot, err)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open screenshot: %w", err)
	}
	defer src.Close()

	return h.evidence.SaveScreenshot(sess, file.Filename, src)
}

func (h *ViewHandler) renderForm(c *gin.Context, req entity.CreateEventRequest, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("Failed to add event")
	}
	c.HTML(status, "new.html", gin.H{
		"Title": "Add event",
		"Form":  req,
		"Error": err.Error(),
	})
}

func (h *ViewHandler) EventDetail(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	id, ok := eventID(c)
	if !ok {
		h.renderError(c, entity.ErrEventNotFound, false)
		return
	}

	event, err := h.dashboard.GetEvent(sess, id)
	if err != nil {
		h.renderError(c, err, false)
		return
	}

	c.HTML(http.StatusOK, "event.html", gin.H{
		"Title": event.Name,
		"Event": event,
	})
}

// ToggleLicense flips the license and returns to the page named by the
// "return" form field, defaulting to the event's detail page.
func (h *ViewHandler) ToggleLicense(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	id, ok := eventID(c)
	if !ok {
		h.renderError(c, entity.ErrEventNotFound, false)
		return
	}

	if _, err := h.dashboard.ToggleLicense(c.Request.Context(), sess, id); err != nil {
		h.renderError(c, err, false)
		return
	}

	target := c.PostForm("return")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		target = fmt.Sprintf("/events/%d", id)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *ViewHandler) Refresh(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if _, err := h.dashboard.Refresh(c.Request.Context(), sess, predicthq.Query{}); err != nil {
		h.renderError(c, err, true)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *ViewHandler) Screenshot(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	name := c.Param("file")
	rc, err := h.evidence.Open(sess, name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "screenshot not found"})
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

// renderError replaces the page with an error message; retry offers "Try again".
func (h *ViewHandler) renderError(c *gin.Context, err error, retry bool) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Error("Dashboard request failed")
	}

	title := "Something went wrong"
	if retry {
		title = "Error loading events"
	}
	c.HTML(status, "error.html", gin.H{
		"Title":   title,
		"Message": errorMessage(err),
		"Retry":   retry,
	})
}
