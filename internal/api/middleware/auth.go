package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketgo/backend/internal/models"
	"marketgo/backend/internal/storage"
)

const userContextKey = "current_user"

// Middleware carries the dependencies shared by the request filters.
type Middleware struct {
	Storage *storage.Service
	Secret  []byte
}

// New creates the middleware set.
func New(store *storage.Service, secret []byte) *Middleware {
	return &Middleware{Storage: store, Secret: secret}
}

// CurrentUser returns the authenticated user placed on the context by
// AuthRequired or OptionalAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func (m *Middleware) userFromBearer(c *gin.Context) (*models.User, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	userID, err := ParseToken(m.Secret, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	user, err := m.Storage.GetUserByID(userID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// AuthRequired rejects requests without a valid bearer token. Dormant accounts
// are refused outright: dormancy disables every authenticated surface.
func (m *Middleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := m.userFromBearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if user.IsDormant {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account is dormant"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present but lets
// anonymous requests through. Used on public product pages for view dedup.
func (m *Middleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := m.userFromBearer(c); ok && !user.IsDormant {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// StaffRequired gates the moderation console. Must run after AuthRequired.
func (m *Middleware) StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff capability required"})
			return
		}
		c.Next()
	}
}
