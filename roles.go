package guard

// Role is the marketplace user type carried in the token role claim and
// mirrored in the session store.
type Role = string

const (
	// RoleConsumer books home-visit services.
	RoleConsumer Role = "CONSUMER"
	// RoleManager performs home-visit work (the worker-side role).
	RoleManager Role = "MANAGER"
)

// IsValid checks if the role is one of the predefined marketplace roles.
func IsValidRole(r Role) bool {
	switch r {
	case RoleConsumer, RoleManager:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role.
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}

// AllRoles returns the predefined marketplace roles.
func AllRoles() []Role {
	return []Role{RoleConsumer, RoleManager}
}

// DefaultHome resolves the role-specific default landing path. An
// unrecognized role lands on the generic home path rather than failing
// hard; the server remains the authority on what such a session may do.
func DefaultHome(cfg Config, role Role) string {
	switch role {
	case RoleConsumer:
		return cfg.GetConsumerHomePath()
	case RoleManager:
		return cfg.GetManagerHomePath()
	default:
		return cfg.GetHomePath()
	}
}

// SetupPath resolves the role-specific profile-setup path.
func SetupPath(cfg Config, role Role) string {
	switch role {
	case RoleManager:
		return cfg.GetManagerSetupPath()
	default:
		return cfg.GetConsumerSetupPath()
	}
}
