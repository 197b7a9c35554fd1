package response

import (
	"github.com/gin-gonic/gin"
)

// JSON writes data as the bare response body.
func JSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Error writes an error object such as {"noprofile": "..."}.
func Error(c *gin.Context, code int, body map[string]string) {
	c.JSON(code, body)
}

// Message writes {"message": message}, used by middlewares that reject a
// request before it reaches a handler.
func Message(c *gin.Context, code int, message string) {
	Error(c, code, map[string]string{"message": message})
}
