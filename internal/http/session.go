package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "fintrack_session"
	flashCookie   = "fintrack_flash"
)

const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
)

type flashMessage struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.secureCookie, true)
}

func (h *Handler) startSession(c *gin.Context, token string) {
	h.setCookie(c, sessionCookie, token, int(h.tokens.TTL().Seconds()))
}

func (h *Handler) endSession(c *gin.Context) {
	h.setCookie(c, sessionCookie, "", -1)
}

// flash queues a message for the next rendered page.
func (h *Handler) flash(c *gin.Context, category, message string) {
	pending := append(pendingFlashes(c), flashMessage{Category: category, Message: message})
	c.Set(flashCookie, pending)

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	h.setCookie(c, flashCookie, base64.RawURLEncoding.EncodeToString(raw), 0)
}

// popFlashes returns queued messages and clears the cookie holding them.
func (h *Handler) popFlashes(c *gin.Context) []flashMessage {
	var out []flashMessage
	if raw, err := c.Cookie(flashCookie); err == nil && raw != "" {
		if decoded, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
			_ = json.Unmarshal(decoded, &out)
		}
		h.setCookie(c, flashCookie, "", -1)
	}
	if pending := pendingFlashes(c); len(pending) > 0 {
		out = append(out, pending...)
		c.Set(flashCookie, []flashMessage(nil))
		h.setCookie(c, flashCookie, "", -1)
	}
	return out
}

func pendingFlashes(c *gin.Context) []flashMessage {
	v, ok := c.Get(flashCookie)
	if !ok {
		return nil
	}
	pending, _ := v.([]flashMessage)
	return pending
}
