package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier turns a bearer token into a Principal. Implementations must
// reject tokens whose signature does not check out; decoding an unsigned
// token body is not verification.
type Verifier interface {
	Verify(token string) (Principal, error)
}

// Claims are the JWT claims this service reads.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HMAC-signed bearer tokens.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a Verifier checking HS256 signatures with secret.
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify checks the token signature and claims and returns the resulting
// Principal. Unknown role strings in the claims are dropped; a token with
// no usable roles gets viewer.
func (v *JWTVerifier) Verify(token string) (Principal, error) {
	if token == "" {
		return Principal{}, errors.New("auth: empty token")
	}
	if len(v.secret) == 0 {
		return Principal{}, errors.New("auth: verifier has no secret configured")
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("auth: unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return Principal{}, err
	}
	if !parsed.Valid {
		return Principal{}, errors.New("auth: invalid token")
	}

	subject := claims.Subject
	if subject == "" {
		subject = "user"
	}
	roles := make([]Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		if role, ok := ParseRole(r); ok {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = []Role{RoleViewer}
	}

	return Principal{Subject: subject, Roles: roles, Authenticated: true}, nil
}
