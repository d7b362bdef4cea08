package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shopRecommender/pkg/logger"
	"shopRecommender/pkg/utils"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

// TokenValidator checks that a token still has a live session.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": msg})
}

// authenticate parses the bearer token and stores the caller in the echo context.
// It returns the rejection message, or "" on success. validator may be nil
// when no session store is configured.
func authenticate(c echo.Context, header string, validator TokenValidator) string {
	tokenParts := strings.Split(header, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "Invalid authorization format"
	}
	tokenString := tokenParts[1]

	claims, err := utils.ParseJWT(tokenString)
	if err != nil {
		logger.Debug("jwt_parse_failed", "error", err)
		return "Invalid token"
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || expAt == nil || time.Now().After(expAt.Time) {
		return "Token expired"
	}

	if validator != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		userID, err := validator.ValidateToken(ctx, tokenString)
		if err != nil {
			logger.Warn("token_session_invalid", "error", err)
			return "Token expired or invalid"
		}
		if userID != claims.UserID {
			logger.Warn("token_user_mismatch", "jwt_user_id", claims.UserID, "session_user_id", userID)
			return "Invalid token"
		}
	}

	userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil || userIDUint == 0 {
		return "Invalid user ID in token"
	}

	c.Set(ContextUserID, uint(userIDUint))
	c.Set(ContextRole, claims.Role)
	c.Set(ContextToken, tokenString)
	return ""
}

// OptionalAuth lets anonymous requests through with no user id set. A token
// that is present but invalid is still rejected.
func OptionalAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}
			if msg := authenticate(c, authHeader, validator); msg != "" {
				return unauthorized(c, msg)
			}
			return next(c)
		}
	}
}

func AuthRequired(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "Missing authorization header")
			}
			if msg := authenticate(c, authHeader, validator); msg != "" {
				return unauthorized(c, msg)
			}
			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleStr, ok := c.Get(ContextRole).(string)
			if !ok || strings.ToUpper(roleStr) != "ADMIN" {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Admin access required"})
			}

			return next(c)
		}
	}
}

// UserIDFromContext returns 0 for anonymous callers.
func UserIDFromContext(c echo.Context) uint {
	if uid, ok := c.Get(ContextUserID).(uint); ok {
		return uid
	}
	return 0
}
