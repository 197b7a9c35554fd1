package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"go-profile-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

const (
	CSRFTokenCookieName = "csrf_token"
	CSRFTokenHeaderName = "X-CSRF-Token"
	csrfTokenLength     = 32
	csrfTokenExpiry     = 24 * time.Hour
)

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CSRFMiddleware applies the double-submit cookie check to requests that
// authenticate with the auth_token cookie. Bearer requests are not exposed to
// CSRF and pass through untouched.
//
// A csrf_token cookie is issued on the first request that lacks one; the
// frontend echoes it in X-CSRF-Token on POST and DELETE.
func CSRFMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		csrfCookie, _ := c.Cookie(CSRFTokenCookieName)
		if csrfCookie == "" {
			token, err := generateCSRFToken()
			if err != nil {
				response.Message(c, http.StatusInternalServerError, "Failed to generate security token")
				c.Abort()
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFTokenCookieName, token, int(csrfTokenExpiry.Seconds()), "/", "", secure, false)
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}
		if session, _ := c.Cookie("auth_token"); session == "" {
			c.Next()
			return
		}

		header := c.GetHeader(CSRFTokenHeaderName)
		if header == "" {
			response.Message(c, http.StatusForbidden, "Missing CSRF token")
			c.Abort()
			return
		}
		if csrfCookie == "" || header != csrfCookie {
			response.Message(c, http.StatusForbidden, "Invalid CSRF token")
			c.Abort()
			return
		}

		c.Next()
	}
}
