package middleware

import (
	"errors"
	"fmt"
	"go-profile-backend/config"
	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/logger"
	"go-profile-backend/pkg/security"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the bearer token and resolves the account it
// names. HS256 tokens are checked against JWT_SECRET, RS256 tokens against
// the JWKS provider when one is configured.
func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config, identities domain.IdentityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		// 1. Try to get token from Header
		if authHeader != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		} else {
			// 2. Try to get token from Cookie
			cookie, err := c.Cookie("auth_token")
			if err == nil && cookie != "" {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			reject(c, "", "missing_token")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
				if cfg.JWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but JWT_SECRET is not configured")
				}
				return []byte(cfg.JWTSecret), nil
			}

			if _, ok := token.Method.(*jwt.SigningMethodRSA); ok && jwksProvider != nil {
				return jwksProvider.KeyFunc(token)
			}

			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		})
		if err != nil || !token.Valid {
			logger.Log.Debug("Token validation failed", "error", err)
			reject(c, "", "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			reject(c, "", "invalid_claims")
			return
		}

		// Tokens issued at login carry "id"; third-party issuers use "sub".
		userID, _ := claims["id"].(string)
		if userID == "" {
			userID, _ = claims["sub"].(string)
		}
		if userID == "" {
			reject(c, "", "missing_subject")
			return
		}

		identity, err := identities.GetByID(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Log.Error("Identity lookup failed", "user_id", userID, "error", err)
			}
			reject(c, userID, "unknown_account")
			return
		}

		c.Set(string(domain.KeyUserID), identity.ID)
		c.Set(string(domain.KeyUserName), identity.Name)

		c.Next()
	}
}

func reject(c *gin.Context, subject, reason string) {
	security.Default().Log(security.Event{
		Type:      security.EventUnauthorizedAccess,
		Subject:   subject,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString(RequestIDKey),
		Reason:    reason,
		Path:      c.FullPath(),
	})
	response.Message(c, http.StatusUnauthorized, "Unauthorized")
	c.Abort()
}
