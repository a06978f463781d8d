package auth

import "github.com/localnerve/clientsdb/internal/models"

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

// PrincipalOf builds the principal for a stored user.
func PrincipalOf(user *models.User) *Principal {
	return &Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}
