package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/auth"
	"github.com/meinhoongagan/permit-desk/models"
	"github.com/meinhoongagan/permit-desk/utils"
)

// NewUser is the input to CreateUser. Password is plaintext; it is hashed
// before anything is written.
type NewUser struct {
	Username  string      `json:"username" validate:"required,min=3,max=64"`
	Password  string      `json:"password" validate:"required,min=1,max=128"`
	Role      models.Role `json:"role" validate:"required,oneof=admin collector approver"`
	Email     string      `json:"email" validate:"omitempty,email"`
	TeamID    *int64      `json:"teamId" validate:"omitempty,gt=0"`
	CreatedBy *int64      `json:"-"`
}

func (s *Storage) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	if in.Role == models.RoleAdmin && in.TeamID != nil {
		return nil, apperr.InvalidInput("admins cannot belong to a team")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "hashing password")
	}

	user := &models.User{
		Username:  in.Username,
		Password:  hash,
		Role:      in.Role,
		Email:     in.Email,
		CreatedBy: in.CreatedBy,
		TeamID:    in.TeamID,
	}

	err = s.withTx(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
			return apperr.Internal(err, "checking username")
		}
		if count > 0 {
			return apperr.Conflict("username already exists")
		}
		if in.TeamID != nil {
			team, err := findByID[models.Team](tx, *in.TeamID)
			if err != nil {
				return err
			}
			if team == nil {
				return apperr.NotFound("team not found")
			}
		}

		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("username already exists")
			}
			return apperr.Internal(err, "creating user")
		}

		if in.TeamID != nil {
			member := &models.TeamMember{TeamID: *in.TeamID, UserID: user.ID, AddedBy: derefOr(in.CreatedBy, user.ID)}
			if err := tx.Create(member).Error; err != nil {
				return apperr.Internal(err, "recording team member")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return findByID[models.User](s.db.WithContext(ctx), id)
}

// GetUserByUsername returns (nil, nil) when no user has that name.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "loading user")
	}
	return &user, nil
}

func (s *Storage) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, apperr.Internal(err, "listing users")
	}
	return users, nil
}

// GetUsersByTeam lists the users whose current team is teamID.
func (s *Storage) GetUsersByTeam(ctx context.Context, teamID int64) ([]models.User, error) {
	users := []models.User{}
	if teamID <= 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Order("id").Find(&users).Error; err != nil {
		return nil, apperr.Internal(err, "listing team users")
	}
	return users, nil
}

func (s *Storage) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return 0, apperr.Internal(err, "counting admins")
	}
	return count, nil
}

// UpdateUserPassword hashes plaintext and replaces the stored password.
func (s *Storage) UpdateUserPassword(ctx context.Context, id int64, plaintext string) (*models.User, error) {
	if plaintext == "" {
		return nil, apperr.InvalidInput("password is required")
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	hash, err := auth.HashPassword(plaintext)
	if err != nil {
		return nil, apperr.Internal(err, "hashing password")
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"password": hash, "updated_at": s.now()})
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "updating password")
	}
	user.Password = hash
	return user, nil
}

// UpdateUserTeam sets or clears the user's current team. Joining a team also
// appends a TeamMember history row attributed to changedBy.
func (s *Storage) UpdateUserTeam(ctx context.Context, userID int64, teamID *int64, changedBy int64) (*models.User, error) {
	var user *models.User
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = findByID[models.User](tx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.NotFound("user not found")
		}

		if teamID != nil {
			if user.IsAdmin() {
				return apperr.InvalidInput("admins cannot belong to a team")
			}
			team, err := findByID[models.Team](tx, *teamID)
			if err != nil {
				return err
			}
			if team == nil {
				return apperr.NotFound("team not found")
			}
		}

		res := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]any{"team_id": nullable(teamID), "updated_at": s.now()})
		if res.Error != nil {
			return apperr.Internal(res.Error, "updating user team")
		}

		if teamID != nil && !user.InTeam(*teamID) {
			member := &models.TeamMember{TeamID: *teamID, UserID: userID, AddedBy: changedBy}
			if err := tx.Create(member).Error; err != nil {
				return apperr.Internal(err, "recording team member")
			}
		}
		user.TeamID = teamID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// nullable turns a nil pointer into an untyped nil so map updates write NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefOr(p *int64, fallback int64) int64 {
	if p == nil {
		return fallback
	}
	return *p
}
