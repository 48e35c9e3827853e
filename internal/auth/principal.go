package auth

import "context"

// Principal is the actor identity attached to a request: a subject plus a
// role set. The rest of the service depends only on Principals, never on
// raw tokens.
type Principal struct {
	Subject       string
	Roles         []Role
	Authenticated bool
	APIKey        bool
}

// Anonymous is the principal attached to requests with no usable
// credential. It carries the viewer role only.
func Anonymous() Principal {
	return Principal{Subject: "anonymous", Roles: []Role{RoleViewer}}
}

// HasRole reports whether any of the principal's roles satisfies the
// required minimum.
func (p Principal) HasRole(required Role) bool {
	for _, r := range p.Roles {
		if RoleAtLeast(r, required) {
			return true
		}
	}
	return false
}

type contextKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFromContext extracts the request principal, falling back to
// Anonymous when none was attached.
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(contextKey{}).(Principal); ok {
		return p
	}
	return Anonymous()
}
