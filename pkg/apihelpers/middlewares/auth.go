package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	jwthandling "github.com/zacki-div/resto-backend/pkg/jwt-handling"
	usermanagement "github.com/zacki-div/resto-backend/pkg/user-management"
	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
	"github.com/gin-gonic/gin"
)

const (
	HeaderAuthorization = "Authorization"
)

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(HeaderAuthorization)
	if authHeader == "" {
		return "", errors.New("no Authorization header found")
	}

	// the header must be exactly "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("no token found in Authorization header")
	}
	return parts[1], nil
}

// GetAndValidateCustomerUserJWT extracts the bearer token, validates it and
// loads the referenced account. The account (without the password hash) is
// attached to the context as "currentUser", the parsed claims as
// "validatedToken".
func GetAndValidateCustomerUserJWT(tokenSignKey string, store usermanagement.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing token"})
			return
		}

		parsedToken, ok, err := jwthandling.ValidateCustomerUserToken(token, tokenSignKey)
		if err != nil || !ok {
			if err == nil {
				err = errors.New("token not valid")
			}
			slog.Warn("token validation failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		// the account may have been deleted after the token was issued
		user, err := store.GetUserByID(parsedToken.Subject)
		if err != nil {
			if errors.Is(err, usermanagement.ErrUserNotFound) {
				slog.Warn("token subject not found", slog.String("userID", parsedToken.Subject))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "account not found"})
				return
			}
			slog.Error("failed to load account for token subject", slog.String("userID", parsedToken.Subject), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
			return
		}
		user.Password = ""

		c.Set("validatedToken", parsedToken)
		c.Set("currentUser", user)
	}
}

// RequireRoles rejects the request with 403 if the authenticated account's
// role is not in the allowed set. Must be composed after
// GetAndValidateCustomerUserJWT.
func RequireRoles(allowedRoles ...userTypes.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userValue, ok := c.Get("currentUser")
		if !ok {
			slog.Error("RequireRoles: currentUser not found in context", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
			return
		}
		user := userValue.(userTypes.User)

		for _, role := range allowedRoles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		slog.Warn("insufficient role for endpoint", slog.String("userID", user.ID.Hex()), slog.String("role", string(user.Role)), slog.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "role " + string(user.Role) + " is not authorized for this action"})
	}
}
