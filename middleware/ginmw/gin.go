// Package ginmw provides Gin HTTP middleware for hosts that serve the
// client-records module behind their own web layer.
//
// The middleware gates handlers on the module's session state: a request
// only passes when the embedded session manager currently holds a valid
// session, optionally restricted to a role set.
package ginmw

import (
	"net/http"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/bansur/clientdesk-go/session"
	"github.com/gin-gonic/gin"
)

// Context keys for storing session data in gin.Context.
const (
	KeyUserID = "clientdesk_user_id"
	KeyRole   = "clientdesk_role"
	KeyUser   = "clientdesk_user"
)

// RequireSession returns middleware that rejects requests with 401 unless
// the manager holds a valid, unexpired session. On success it stores the
// user in the context, retrievable via GetUser, GetUserID and GetRole.
func RequireSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := m.Current()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		c.Set(KeyUser, s.User)
		c.Set(KeyUserID, s.User.ID)
		c.Set(KeyRole, s.User.Role)

		ctx := clientdesk.WithUserID(c.Request.Context(), s.User.ID)
		ctx = clientdesk.WithRole(ctx, s.User.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles returns middleware that rejects requests with 403 unless
// the current user's role is in the given set. It checks the session
// directly, so it never default-allows: no session and an empty role set
// both deny. Run it after RequireSession for a clean 401/403 split.
func RequireRoles(m *session.Manager, roles ...clientdesk.RoleID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// GetUser returns the authenticated user from the Gin context.
func GetUser(c *gin.Context) (clientdesk.User, bool) {
	v, ok := c.Get(KeyUser)
	if !ok {
		return clientdesk.User{}, false
	}
	u, ok := v.(clientdesk.User)
	return u, ok
}

// GetUserID returns the authenticated user's id, zero when unset.
func GetUserID(c *gin.Context) int {
	v, _ := c.Get(KeyUserID)
	id, _ := v.(int)
	return id
}

// GetRole returns the authenticated user's role, zero when unset.
func GetRole(c *gin.Context) clientdesk.RoleID {
	v, _ := c.Get(KeyRole)
	r, _ := v.(clientdesk.RoleID)
	return r
}
