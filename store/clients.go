package store

import (
	"context"
	"strings"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/models"
	"github.com/meinhoongagan/permit-desk/utils"
)

type NewClient struct {
	PassportNumber string           `json:"passportNumber" validate:"required,max=32"`
	FullName       string           `json:"fullName" validate:"required,max=256"`
	PhoneNumber    string           `json:"phoneNumber" validate:"required,max=32"`
	Email          string           `json:"email" validate:"required,email"`
	NationalID     string           `json:"nationalId" validate:"required,max=32"`
	PassportImage  string           `json:"passportImage" validate:"required"`
	WorkType       string           `json:"workType" validate:"required,max=128"`
	Workplace      models.Workplace `json:"workplace" validate:"required,oneof=saudi_arabia uae kuwait qatar bahrain oman"`
	Gender         models.Gender    `json:"gender" validate:"required,oneof=male female"`
	CreatedBy      int64            `json:"-"`
}

func (s *Storage) CreateClient(ctx context.Context, in NewClient) (*models.Client, error) {
	in.PassportNumber = strings.TrimSpace(in.PassportNumber)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := utils.Validate(in); err != nil {
		return nil, err
	}

	client := &models.Client{
		PassportNumber: in.PassportNumber,
		FullName:       in.FullName,
		PhoneNumber:    in.PhoneNumber,
		Email:          in.Email,
		NationalID:     in.NationalID,
		PassportImage:  in.PassportImage,
		WorkType:       in.WorkType,
		Workplace:      in.Workplace,
		Gender:         in.Gender,
		CreatedBy:      in.CreatedBy,
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, apperr.Internal(err, "creating client")
	}
	return client, nil
}

func (s *Storage) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	return findByID[models.Client](s.db.WithContext(ctx), id)
}

func (s *Storage) GetClients(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	if err := s.db.WithContext(ctx).Order("id").Find(&clients).Error; err != nil {
		return nil, apperr.Internal(err, "listing clients")
	}
	return clients, nil
}
