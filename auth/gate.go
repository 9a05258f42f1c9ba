package auth

import (
	"context"
	"sync"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/models"
)

// UserFinder is the slice of the entity store the gate needs.
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Gate verifies credentials against stored users.
type Gate struct {
	users UserFinder

	dummyOnce sync.Once
	dummy     string
}

func NewGate(users UserFinder) *Gate {
	return &Gate{users: users}
}

// VerifyCredentials returns the matching user or an Unauthenticated error.
// Unknown usernames and wrong passwords fail the same way, and an unknown
// username still costs one key derivation.
func (g *Gate) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	invalid := apperr.Unauthenticated("invalid credentials")
	if username == "" || password == "" {
		return nil, invalid
	}

	user, err := g.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_, _ = CheckPassword(g.dummyHash(), password)
		return nil, invalid
	}

	ok, err := CheckPassword(user.Password, password)
	if err != nil {
		return nil, apperr.Internal(err, "checking password")
	}
	if !ok {
		return nil, invalid
	}
	return user, nil
}

func (g *Gate) dummyHash() string {
	g.dummyOnce.Do(func() {
		g.dummy, _ = HashPassword("not-a-real-password")
	})
	return g.dummy
}
