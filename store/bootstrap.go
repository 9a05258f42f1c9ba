package store

import (
	"context"

	"github.com/meinhoongagan/permit-desk/models"
)

// EnsureAdmin creates the first admin account when none exists and both
// credentials are supplied. It reports whether a user was created.
func (s *Storage) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 || username == "" || password == "" {
		return false, nil
	}
	if _, err := s.CreateUser(ctx, NewUser{Username: username, Password: password, Role: models.RoleAdmin}); err != nil {
		return false, err
	}
	return true, nil
}
