package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bitmark-inc/aqi-predictor/schema"
	"github.com/bitmark-inc/aqi-predictor/store"
)

const (
	sessionCookie = "aqi_session"
	sessionKey    = "session"
)

// sessionMiddleware loads the session named by the cookie, or starts a new
// one. A new session is only stored once it records a prediction.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var session *schema.Session

		if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
			session, err = s.sessions.Get(c.Request.Context(), id)
			if err != nil && !errors.Is(err, store.ErrSessionNotFound) {
				abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
				return
			}
		}

		if session == nil {
			session = &schema.Session{ID: uuid.New().String()}
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, session.ID, 0, "/", "", false, true)
		c.Set(sessionKey, session)
		c.Next()
	}
}

func currentSession(c *gin.Context) (*schema.Session, bool) {
	session, ok := c.MustGet(sessionKey).(*schema.Session)
	return session, ok
}

func (s *Server) clearSession(c *gin.Context) {
	if _, err := c.Cookie(sessionCookie); err != nil {
		abortWithEncoding(c, http.StatusNotFound, errorSessionNotFound, err)
		return
	}

	session, ok := currentSession(c)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	if err := s.sessions.Delete(c.Request.Context(), session.ID); shouldInterupt(err, c) {
		return
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)

	if c.Request.Method == http.MethodDelete {
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, localizedPath(c, "/"))
}
