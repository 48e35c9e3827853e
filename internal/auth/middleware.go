package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// APIKeyHeader is the header carrying the ingestion API key.
const APIKeyHeader = "x-api-key"

// Middleware classifies request credentials into a Principal and enforces
// per-route minimum roles.
//
// Classification order: a matching ingestion API key yields the
// "ingest-client" operator principal; otherwise a verifiable bearer token
// yields its claimed principal; anything else is anonymous. Classification
// never rejects a request by itself; role checks do.
type Middleware struct {
	verifier  Verifier
	ingestKey string
}

// NewMiddleware creates a Middleware. An empty ingestKey disables API key
// classification.
func NewMiddleware(v Verifier, ingestKey string) *Middleware {
	return &Middleware{verifier: v, ingestKey: ingestKey}
}

// Authenticate attaches the request principal to the context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := m.classify(r)
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireRole wraps next, rejecting principals below the required role
// with a 403.
func (m *Middleware) RequireRole(required Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromContext(r.Context())
		if !p.HasRole(required) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
				"code":    "forbidden",
				"message": "insufficient role",
			})
			return
		}
		next(w, r)
	}
}

func (m *Middleware) classify(r *http.Request) Principal {
	if key := r.Header.Get(APIKeyHeader); key != "" && m.ingestKey != "" {
		if subtle.ConstantTimeCompare([]byte(key), []byte(m.ingestKey)) == 1 {
			return Principal{
				Subject:       "ingest-client",
				Roles:         []Role{RoleOperator},
				Authenticated: true,
				APIKey:        true,
			}
		}
	}

	if token := extractBearer(r); token != "" && m.verifier != nil {
		if p, err := m.verifier.Verify(token); err == nil {
			return p
		}
	}

	return Anonymous()
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
