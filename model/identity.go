package model

// Role describes the authorization level of an authenticated identity.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated principal. It is persisted verbatim as the
// session record and cleared on logout.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" example:"muser"`
	Password string `json:"password" example:"muser"`
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Username string `json:"username" example:"newuser"`
	Password string `json:"password" example:"SecurePassword123"`
	Name     string `json:"name" example:"New User"`
}

// LoginResponse represents a successful login or registration response
type LoginResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}
