package middlewares

import "github.com/gin-gonic/gin"

// abortJSON writes the shared error body. Handlers use the same shape.
func abortJSON(c *gin.Context, status int, msg string) {
	body := gin.H{"errorCode": status, "msg": msg}
	if id := RequestIDFrom(c); id != "" {
		body["requestId"] = id
	}
	c.AbortWithStatusJSON(status, body)
}
