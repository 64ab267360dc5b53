package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fintrack/internal/auth"
	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

const (
	ctxRequestID = "request_id"
	ctxUser      = "user"
)

// requestLogger writes one log line per request.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ctxRequestID, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		fields := logrus.Fields{
			"request_id":  requestID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if id, ok := auth.FromContext(c.Request.Context()); ok {
			fields["user_id"] = id.UserID
		}
		entry := logger.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// recovery renders the error page when a handler panics.
func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.log(c).WithField("panic", recovered).Error("handler panicked")
		h.render(c, http.StatusInternalServerError, pageServerError, nil)
		c.Abort()
	})
}

// loadSession resolves the session cookie into an identity on the request
// context. Requests whose token or user cannot be resolved continue as
// anonymous. The cookie is dropped for bad tokens and deleted accounts
// but kept when the user lookup itself fails.
func (h *Handler) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		id, err := h.tokens.Parse(token)
		if err != nil {
			h.log(c).WithError(err).Debug("discarding session")
			h.endSession(c)
			c.Next()
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), id.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				h.endSession(c)
			} else {
				h.log(c).WithError(err).Warn("load session user")
			}
			c.Next()
			return
		}

		c.Set(ctxUser, user)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), auth.Identity{
			UserID:   user.ID,
			Username: user.Username,
		}))
		c.Next()
	}
}

// requireUser rejects anonymous requests: pages redirect to the login form,
// JSON endpoints answer 401.
func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.FromContext(c.Request.Context()); ok {
			c.Next()
			return
		}
		if wantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

func wantsJSON(c *gin.Context) bool {
	return c.FullPath() == "/get_latest_data" ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func actorID(c *gin.Context) string {
	id, _ := auth.FromContext(c.Request.Context())
	return id.UserID
}

func (h *Handler) log(c *gin.Context) *logrus.Entry {
	entry := h.logger.WithField("component", "http")
	if id := c.GetString(ctxRequestID); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}
