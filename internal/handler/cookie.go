package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carewire/clinical-api/internal/config"
)

// CookieWriter issues and clears the session cookie. Settings come from
// configuration at construction; there is no mutable global options object.
type CookieWriter struct {
	cfg    config.CookieConfig
	maxAge int
}

func NewCookieWriter(cfg config.CookieConfig, sessionTTL time.Duration) *CookieWriter {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &CookieWriter{cfg: cfg, maxAge: int(sessionTTL.Seconds())}
}

// Name returns the cookie name carrying the session token.
func (w *CookieWriter) Name() string {
	return w.cfg.Name
}

// Issue sets the session cookie on login and signup.
func (w *CookieWriter) Issue(c *gin.Context, token string) {
	w.set(c, token, w.maxAge)
}

// Clear expires the cookie immediately on logout.
func (w *CookieWriter) Clear(c *gin.Context) {
	w.set(c, "", -1)
}

func (w *CookieWriter) set(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(w.sameSite())
	c.SetCookie(w.cfg.Name, value, maxAge, w.cfg.Path, w.cfg.Domain, w.cfg.Secure, w.cfg.HTTPOnly)
}

func (w *CookieWriter) sameSite() http.SameSite {
	switch w.cfg.SameSite {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
