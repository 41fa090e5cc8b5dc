package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/types"
)

// Recovery turns a panic in a handler into a logged JSON 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.Ctx(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"})
	})
}
