package session

// Role is the closed set of roles a voter account can carry. Claims
// decoded from a token may hold values outside this set; those never
// match an authorization check, they do not crash it.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps a raw claim value onto the known set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

// Known reports whether the role is a member of the closed set.
func (r Role) Known() bool {
	_, ok := ParseRole(string(r))
	return ok
}
