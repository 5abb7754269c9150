package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wavemedia/internal/authz"
	"wavemedia/internal/repositories"
)

// RequireRoles gates a route on role membership. The user record is
// re-fetched so a role change (or deactivation) takes effect on the very
// next request, even though the access token still carries the old role.
func RequireRoles(users repositories.UserRepository, allowed ...string) gin.HandlerFunc {
	allowedSet := map[string]struct{}{}
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}
	return func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		user, err := users.GetByID(id)
		if err != nil || user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		if _, ok := allowedSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		// refresh the context with the current role
		c.Set(CtxRole, user.Role)
		c.Next()
	}
}

// RequireAdmin is the strict variant: same re-fetch, single allowed role.
func RequireAdmin(users repositories.UserRepository) gin.HandlerFunc {
	return RequireRoles(users, authz.RoleAdmin)
}

// RequireStaff allows managers and admins.
func RequireStaff(users repositories.UserRepository) gin.HandlerFunc {
	return RequireRoles(users, authz.RoleManager, authz.RoleAdmin)
}
