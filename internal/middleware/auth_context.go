package middleware

import (
	"context"
	"net/http"
	"strings"

	"vet-clinic-scheduling/internal/platform/logger"
	"vet-clinic-scheduling/internal/ports/auth"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	DebugUserHeader   = "X-Debug-User-ID"
	DebugTenantHeader = "X-Debug-Tenant-ID"
)

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si verifier == nil => modo dev: X-Debug-User-ID (y opcional X-Debug-Tenant-ID) setean claims.
// - Si no hay claims el request sigue igual; cada handler decide si exige sesión.
// - Las rutas públicas (disponibilidad, portal) no la exigen.
func AuthContext(verifier auth.AuthVerifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				claims := auth.Claims{
					UserID:   strings.TrimSpace(r.Header.Get(DebugUserHeader)),
					TenantID: strings.TrimSpace(r.Header.Get(DebugTenantHeader)),
				}
				if claims.Authenticated() {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// no cortamos: el handler responde 401 si la ruta lo requiere
				if log != nil {
					log.Debug("bearer token rejected", map[string]any{
						"request_id": chimw.GetReqID(r.Context()),
						"error":      err.Error(),
					})
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	if !ok || !c.Authenticated() {
		return auth.Claims{}, false
	}
	return c, true
}

func bearerToken(authHeader string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
