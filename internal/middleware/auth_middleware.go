package middleware

import (
	"context"
	"net/http"
	"strings"

	"rt-portal/internal/services"
	"rt-portal/internal/transport/httpdto"
	"rt-portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (services.Actor, error)
}

// AuthMiddleware resolves the bearer token to an actor and stores it on the
// request context for handlers and downstream middleware.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch status := services.HTTPStatus(err); status {
			case http.StatusUnauthorized:
				abortUnauthorized(c)
			case http.StatusForbidden:
				c.AbortWithStatusJSON(status, httpdto.NewErrorResponse("account disabled", "FORBIDDEN"))
			default:
				logger.GetGlobalLogger().WithContext(c.Request.Context()).Error("authentication failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal server error", "INTERNAL_ERROR"))
			}
			return
		}

		ctx := services.WithActor(c.Request.Context(), actor)
		ctx = context.WithValue(ctx, logger.UserIdKey, actor.UserID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
