package middleware

import (
	"net/http"

	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/entity"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "dashboard_session"
	sessionKey    = "dashboard.session"
)

// Session attaches the caller's dashboard session, creating one (and its
// cookie) when the cookie is missing or the session has expired.
func Session(sessions database.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)

		sess, created := sessions.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sess.ID, 0, "/", "", false, true)
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func CurrentSession(c *gin.Context) (*database.Session, error) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	sess, ok := v.(*database.Session)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return sess, nil
}

func sessionID(v any) string {
	if sess, ok := v.(*database.Session); ok {
		return sess.ID
	}
	return ""
}
