package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCSRFMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CSRFMiddleware(false))
	r.GET("/profile", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/profile", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(method, header, cookie, csrfCookie, csrfHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "auth_token", Value: cookie})
		}
		if csrfCookie != "" {
			req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: csrfCookie})
		}
		if csrfHeader != "" {
			req.Header.Set(CSRFTokenHeaderName, csrfHeader)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Should issue a token cookie on safe requests", func(t *testing.T) {
		w := send(http.MethodGet, "", "", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), CSRFTokenCookieName+"=")
	})

	t.Run("Should let bearer requests through", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send(http.MethodPost, "Bearer x", "", "", "").Code)
	})

	t.Run("Should reject cookie sessions without the header", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, send(http.MethodPost, "", "session", "tok", "").Code)
	})

	t.Run("Should reject a mismatched header", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, send(http.MethodPost, "", "session", "tok", "other").Code)
	})

	t.Run("Should accept a matching header", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send(http.MethodPost, "", "session", "tok", "tok").Code)
	})
}
