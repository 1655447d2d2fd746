package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/services"
	"github.com/PrepGrid-2025/testing-service/internal/sessions"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// SessionAuthMiddleware authenticates requests from the session cookie. The
// session only pins the principal id; the user row, including the role, is
// re-read from the database on every request so a revoked admin loses access
// immediately, not at next login.
type SessionAuthMiddleware struct {
	store       sessions.Store
	authService services.AuthService
}

func NewSessionAuthMiddleware(store sessions.Store, authService services.AuthService) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{
		store:       store,
		authService: authService,
	}
}

// AuthMiddleware returns a Gin middleware that resolves the session cookie
// to a live user and stores it in the request context.
func (sam *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			c.Abort()
			return
		}

		session, err := sam.store.Get(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, sessions.ErrSessionNotFound) {
				c.JSON(http.StatusUnauthorized, ErrorResponse{
					Message: "Session expired or invalid",
				})
			} else {
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal server error",
				})
			}
			c.Abort()
			return
		}

		user, err := sam.authService.GetUser(c.Request.Context(), session.UserID)
		if err != nil {
			// The session outlived the user row. Drop it.
			_ = sam.store.Delete(c.Request.Context(), token)
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Session expired or invalid",
			})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)
		c.Set("session_id", session.ID)

		c.Next()
	}
}

// RequireRoleMiddleware checks if user has required role
func (sam *SessionAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Insufficient permissions",
			})
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Insufficient permissions",
			})
			c.Abort()
			return
		}

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient permissions",
			Details: fmt.Sprintf("required role: %v", requiredRoles),
		})
		c.Abort()
	}
}

// GetUserFromContext extracts the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}

// GetUserIDFromContext extracts the authenticated user id from the Gin context.
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}
