package httpx

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/aussiebroadwan/licensor/pkg/jwtx"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
)

// Operator is the authenticated caller of an admin route.
type Operator struct {
	Subject string
	Scopes  []string
	TokenID string
}

// Allows reports whether the operator holds any of scopes. No scopes means
// any authenticated operator.
func (o Operator) Allows(scopes ...string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if slices.Contains(o.Scopes, s) {
			return true
		}
	}
	return false
}

type operatorKey struct{}

// WithOperator stores op on ctx.
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, op)
}

// OperatorFromContext returns the operator attached by RequireOperator.
func OperatorFromContext(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(operatorKey{}).(Operator)
	return op, ok
}

// RequireOperator admits requests carrying a bearer token that v accepts and
// that grants at least one of scopes.
func RequireOperator(v jwtx.Verifier, scopes ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				challenge(w, http.StatusUnauthorized, "invalid_token", "missing bearer token", "")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(r.Context()).Warn("operator token rejected", "error", err)
				challenge(w, http.StatusUnauthorized, "invalid_token", "token verification failed", "")
				return
			}

			op := Operator{Subject: claims.Subject, Scopes: claims.Scopes, TokenID: claims.ID}
			if !op.Allows(scopes...) {
				scope := strings.Join(scopes, " ")
				challenge(w, http.StatusForbidden, "insufficient_scope", "requires one of: "+scope, scope)
				return
			}

			ctx := WithOperator(r.Context(), op)
			ctx = slogx.With(ctx, "operator", op.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// challenge writes an RFC 6750 error with its WWW-Authenticate header.
func challenge(w http.ResponseWriter, status int, code, desc, scope string) {
	h := `Bearer error="` + code + `"`
	if scope != "" {
		h += `, scope="` + scope + `"`
	}
	w.Header().Set("WWW-Authenticate", h+`, error_description="`+desc+`"`)
	WriteJSON(w, status, map[string]string{
		"error":             code,
		"error_description": desc,
	})
}
