package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/permit-desk/models"
)

const testSecret = "0123456789abcdef0123"

func verify(t *testing.T, tokens *Tokens, raw string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		return tokens.Secret(), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestIssue(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	user := &models.User{ID: 42, Role: models.RoleApprover}

	raw, exp, err := tokens.Issue(user, "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	tok, _, err := new(jwt.Parser).ParseUnverified(raw, jwt.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, "HS256", tok.Method.Alg())

	id, err := IdentityFromClaims(verify(t, tokens, raw))
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, Role: models.RoleApprover, SessionID: "sid-1"}, id)
}

func TestIssueHonoursTTL(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, exp, err := tokens.Issue(&models.User{ID: 1, Role: models.RoleAdmin}, "sid")
	require.NoError(t, err)
	assert.True(t, exp.Before(time.Now()))

	_, err = jwt.Parse(raw, func(*jwt.Token) (interface{}, error) { return tokens.Secret(), nil })
	assert.Error(t, err)
}

func TestIdentityFromClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		ok     bool
	}{
		{"float id", jwt.MapClaims{"id": float64(3), "role": "collector", "jti": "s"}, true},
		{"string id", jwt.MapClaims{"id": "3", "role": "collector", "jti": "s"}, true},
		{"missing id", jwt.MapClaims{"role": "collector", "jti": "s"}, false},
		{"zero id", jwt.MapClaims{"id": float64(0), "role": "collector", "jti": "s"}, false},
		{"bad role", jwt.MapClaims{"id": float64(3), "role": "root", "jti": "s"}, false},
		{"no session", jwt.MapClaims{"id": float64(3), "role": "collector"}, false},
		{"bool id", jwt.MapClaims{"id": true, "role": "collector", "jti": "s"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IdentityFromClaims(tt.claims)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
