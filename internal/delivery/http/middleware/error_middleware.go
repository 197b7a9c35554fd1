package middleware

import (
	"errors"
	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			response.Error(c, appErr.Code, appErr.Body())
			return
		}

		// Unclassified errors never reach the client verbatim.
		logger.Log.Error("Unhandled request error",
			"error", err,
			"path", c.FullPath(),
			"request_id", c.GetString(RequestIDKey),
		)
		response.Message(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}
