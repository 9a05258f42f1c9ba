package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/models"
	"github.com/meinhoongagan/permit-desk/utils"
)

type NewTeam struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description" validate:"max=1024"`
	CreatedBy   int64  `json:"-" validate:"gt=0"`
}

func (s *Storage) CreateTeam(ctx context.Context, in NewTeam) (*models.Team, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	team := &models.Team{Name: in.Name, Description: in.Description, CreatedBy: in.CreatedBy}
	if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
		return nil, apperr.Internal(err, "creating team")
	}
	return team, nil
}

func (s *Storage) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	return findByID[models.Team](s.db.WithContext(ctx), id)
}

func (s *Storage) GetTeams(ctx context.Context) ([]models.Team, error) {
	teams := []models.Team{}
	if err := s.db.WithContext(ctx).Order("id").Find(&teams).Error; err != nil {
		return nil, apperr.Internal(err, "listing teams")
	}
	return teams, nil
}

// AddTeamMember moves userID into teamID and records the change.
func (s *Storage) AddTeamMember(ctx context.Context, teamID, userID, addedBy int64) (*models.User, error) {
	return s.UpdateUserTeam(ctx, userID, &teamID, addedBy)
}

// RemoveTeamMember clears the user's current team. History rows are kept.
func (s *Storage) RemoveTeamMember(ctx context.Context, teamID, userID int64) (*models.User, error) {
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
		if !user.InTeam(teamID) {
			return apperr.NotFound("user is not a member of this team")
		}
		res := tx.Model(&models.User{}).Where("id = ? AND team_id = ?", userID, teamID).
			Updates(map[string]any{"team_id": nil, "updated_at": s.now()})
		if res.Error != nil {
			return apperr.Internal(res.Error, "removing team member")
		}
		user.TeamID = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetTeamMembers returns the membership history of teamID, oldest first.
func (s *Storage) GetTeamMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	members := []models.TeamMember{}
	if teamID <= 0 {
		return members, nil
	}
	err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Order("added_at, id").Find(&members).Error
	if err != nil {
		return nil, apperr.Internal(err, "listing team members")
	}
	return members, nil
}
