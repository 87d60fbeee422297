package model

// Role is the effective role of a user. It is derived from the user's flags
// and never stored.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return r, true
	}
	return "", false
}

func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/"
	case RoleLibrarian:
		return "/librarian/"
	default:
		return "/member/"
	}
}

// Role resolves the flags: superuser wins over librarian, everything else is a member.
func (u User) Role() Role {
	switch {
	case u.IsSuperuser:
		return RoleAdmin
	case u.IsLibrarian:
		return RoleLibrarian
	default:
		return RoleMember
	}
}

// CanLoginAs reports whether the user may sign in under the claimed role.
// The member check looks only at is_librarian, so a non-librarian admin may
// sign in as a member.
func (u User) CanLoginAs(claim string) bool {
	role, ok := ParseRole(claim)
	if !ok {
		return false
	}
	switch role {
	case RoleAdmin:
		return u.IsSuperuser
	case RoleLibrarian:
		return u.IsLibrarian
	case RoleMember:
		return !u.IsLibrarian
	}
	return false
}
