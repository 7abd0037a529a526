package user

// Principal identifies an authenticated session owner.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

const (
	RoleFan   = "fan"
	RoleAdmin = "admin"
)

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
