package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/dutybadge/internal/api"
	"github.com/dmitrijs2005/dutybadge/internal/logging"
	"github.com/dmitrijs2005/dutybadge/internal/server/auth"
)

const requestIDHeader = "X-Request-ID"

// requestID tags the request with the client's X-Request-ID or a fresh
// uuid, echoes it back and logs the outcome.
func (s *HTTPServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		ctx := logging.WithAttrs(c.Request.Context(), "request_id", id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		s.logger.Debug(ctx, "http request", "method", c.Request.Method, "path", c.FullPath(), "status", c.Writer.Status())
	}
}

// authenticate verifies the bearer token and stores the caller's identity
// in the request context.
func (s *HTTPServer) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error{Code: "unauthenticated", Message: "missing token"})
			return
		}

		id, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.logger.Warn(c.Request.Context(), "rejected token", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error{Code: "unauthenticated", Message: "invalid token"})
			return
		}

		ctx := logging.WithAttrs(auth.WithIdentity(c.Request.Context(), id), "user_id", id.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := auth.IdentityFrom(c.Request.Context()); !ok || !id.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, api.Error{Code: "forbidden", Message: "admin permission required"})
			return
		}
		c.Next()
	}
}
