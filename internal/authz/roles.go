package authz

// Closed role set. Promotions go one way: manager -> admin.
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

func IsValid(role string) bool {
	switch role {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may manage content.
func IsStaff(role string) bool {
	return role == RoleManager || role == RoleAdmin
}
