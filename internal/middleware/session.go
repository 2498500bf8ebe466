package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"storefront/internal/session"
)

const (
	SessionCookieName = "storefront_session"

	sessionIDKey = "sessionId"
	identityKey  = "identity"
)

func NewCookieStore(secret string, ttl time.Duration) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Session loads the session cookie, issuing a fresh sid when the cookie is
// missing or cannot be decoded, and stores the sid on the gin context.
func Session(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, SessionCookieName)
		if err != nil {
			log.Println("[SESSION] [WARN] discarding unreadable session cookie:", err)
		}

		sid, _ := sess.Values["sid"].(string)
		if sid == "" {
			sid = uuid.NewString()
			sess.Values["sid"] = sid
			if err := sess.Save(c.Request, c.Writer); err != nil {
				log.Println("[SESSION] [ERROR] save session:", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
		}

		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

// CurrentSession returns the session context assembled by Session and Identity.
func CurrentSession(c *gin.Context) session.Context {
	ctx := session.Context{ID: c.GetString(sessionIDKey)}
	if value, ok := c.Get(identityKey); ok {
		if identity, ok := value.(*session.Identity); ok {
			ctx.Identity = identity
		}
	}
	return ctx
}
