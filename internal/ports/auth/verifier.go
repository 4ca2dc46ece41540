package auth

import "context"

// AuthVerifier verifica un bearer token del personal de la clínica.
// Implementación: adapters/auth/jwt.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
