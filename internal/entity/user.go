package entity

// Role is advisory only: it gates what the client shows, never what the
// store permits. Enforcement lives in the store's row-level policies.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an authenticated identity. It lives in memory for the duration
// of a session and is never persisted client-side.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Token   string `json:"-"` // opaque bearer token
	Company string `json:"company,omitempty"`
	Role    Role   `json:"role,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
