package domain

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// User models the operator or any account managed by the CRM backend.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	CreatedAt Timestamp  `json:"createdAt"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Credentials is the opaque bearer pair issued by the backend on login.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register and POST /users.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// UserUpdate is the body of PUT /users/{id}. Nil fields are left untouched
// by the backend.
type UserUpdate struct {
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// PasswordChange is the body of POST /users/me/change-password.
type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// PasswordReset is the body of the admin-only POST /users/{id}/change-password.
type PasswordReset struct {
	NewPassword string `json:"newPassword"`
}

// SessionState is a point-in-time view of the console session.
type SessionState struct {
	User    *User `json:"user,omitempty"`
	Loading bool  `json:"loading"`
}

func (s SessionState) IsAuthenticated() bool { return s.User != nil }

func (s SessionState) IsAdmin() bool { return s.User.IsAdmin() }
