package auth

import "strings"

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Email    string
	TenantID string // clínica; vacío en modo dev
}

// Authenticated indica si los claims identifican a un usuario.
func (c Claims) Authenticated() bool {
	return strings.TrimSpace(c.UserID) != ""
}
