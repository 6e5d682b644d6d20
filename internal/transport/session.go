package transport

import (
	"net/http"
	"strconv"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

func sessionOrAbort(c *gin.Context) (*database.Session, bool) {
	sess, err := middleware.CurrentSession(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}

func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
