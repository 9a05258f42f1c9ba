package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/permit-desk/models"
)

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID    int64
	Role      models.Role
	SessionID string
}

// Tokens issues HS256 access tokens. Verification happens in the jwtware
// middleware, which is handed Secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Secret() []byte { return t.secret }

func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs a token for user bound to sessionID.
func (t *Tokens) Issue(user *models.User, sessionID string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"jti":  sessionID,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// IdentityFromClaims reads id, role and jti out of verified claims.
func IdentityFromClaims(claims jwt.MapClaims) (Identity, error) {
	id, err := extractUserID(claims)
	if err != nil {
		return Identity{}, err
	}
	role, _ := claims["role"].(string)
	if !models.Role(role).Valid() {
		return Identity{}, fmt.Errorf("unsupported role %q in claims", role)
	}
	sid, _ := claims["jti"].(string)
	if sid == "" {
		return Identity{}, fmt.Errorf("no session id found in claims")
	}
	return Identity{UserID: id, Role: models.Role(role), SessionID: sid}, nil
}

// extractUserID handles the numeric shapes a JSON-decoded id can take.
func extractUserID(claims jwt.MapClaims) (int64, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	var id int64
	switch v := idVal.(type) {
	case float64:
		id = int64(v)
	case int64:
		id = v
	case int:
		id = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		id = parsed
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
	if id <= 0 {
		return 0, fmt.Errorf("non-positive ID in claims")
	}
	return id, nil
}
