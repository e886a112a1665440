package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/utils"
)

// RequireAuth checks for a valid bearer token signed with secret
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization header required"))
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || scheme != "Bearer" || tokenString == "" {
			apierrors.RespondWithError(c, apierrors.Unauthorized("Invalid authorization format"))
			return
		}

		subject, err := utils.ParseJWT(secret, tokenString)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.Unauthorized("Invalid token"))
			return
		}

		// Store the subject in context for easy access in handlers
		c.Set(constants.ContextKeySubject, subject)
		c.Next()
	}
}

// GetSubject retrieves the authenticated subject from context
func GetSubject(c *gin.Context) (string, bool) {
	subject, exists := c.Get(constants.ContextKeySubject)
	if !exists {
		return "", false
	}

	s, ok := subject.(string)
	return s, ok
}
