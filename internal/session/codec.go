// Package session encodes and verifies the signed session token carried in
// the pde_session cookie.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

// CookieName identifies the session cookie.
const CookieName = "pde_session"

const issuer = "punto-entrega"

// Claims are the verified contents of a session token. RoleLevel is the
// ordinal privilege rank consulted by the request gate; higher is more
// privileged.
type Claims struct {
	AccountID string `json:"account_id"`
	RoleLevel int    `json:"role_level"`
	Status    string `json:"status"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a shared HS256 secret.
type Codec struct {
	signingKey []byte
}

// NewCodec constructs a Codec. An empty signing key is refused so the
// process fails closed rather than accepting forgeable tokens.
func NewCodec(signingKey string) (*Codec, error) {
	if signingKey == "" {
		return nil, errors.New("session signing key must not be empty")
	}
	return &Codec{signingKey: []byte(signingKey)}, nil
}

// Generate signs a session token for the given account.
func (c *Codec) Generate(accountID id.AccountID, roleLevel int, status, firstName, lastName string, expiresIn time.Duration) (string, error) {
	if accountID.IsNil() {
		return "", errors.New("account id is required")
	}
	if expiresIn <= 0 {
		return "", errors.New("expiresIn must be greater than zero")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID: accountID.String(),
		RoleLevel: roleLevel,
		Status:    status,
		FirstName: firstName,
		LastName:  lastName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate verifies signature, expiry and required claims. Every failure
// mode collapses into one unauthorized error: callers never partially
// trust an unverified payload.
func (c *Codec) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session claims")
	}
	if claims.Issuer != issuer || claims.AccountID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session claims")
	}
	if _, err := id.ParseAccountID(claims.AccountID); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session claims")
	}

	return claims, nil
}
