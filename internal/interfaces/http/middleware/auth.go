package middleware

import (
	"errors"
	"net/http"

	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/infrastructure/auth"
	"github.com/billmaster/backend/internal/infrastructure/logger"
	"github.com/billmaster/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActorKey is the gin context key holding the authenticated identity.Actor
const ActorKey = "actor"

// ActorVerifier turns a bearer token into an actor
type ActorVerifier interface {
	Verify(raw string) (identity.Actor, *auth.Claims, error)
}

// Authenticate requires a valid bearer token and stores the resulting actor
// on both the gin context and the request context.
func Authenticate(verifier ActorVerifier, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		raw := auth.BearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		actor, _, err := verifier.Verify(raw)
		if err != nil {
			log.Debug("Token rejected",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			abortUnauthorized(c, tokenErrorMessage(err))
			return
		}

		c.Set(ActorKey, actor)
		c.Request = c.Request.WithContext(logger.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// GetActor returns the actor set by Authenticate
func GetActor(c *gin.Context) (identity.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return identity.Actor{}, false
	}
	actor, ok := v.(identity.Actor)
	return actor, ok
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidClaims):
		return "Token claims are invalid"
	default:
		return "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="billmaster"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
