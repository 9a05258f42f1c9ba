package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Workplace is one of the GCC countries a client can be placed in.
type Workplace string

const (
	WorkplaceSaudiArabia Workplace = "saudi_arabia"
	WorkplaceUAE         Workplace = "uae"
	WorkplaceKuwait      Workplace = "kuwait"
	WorkplaceQatar       Workplace = "qatar"
	WorkplaceBahrain     Workplace = "bahrain"
	WorkplaceOman        Workplace = "oman"
)

type Client struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	PassportNumber string    `json:"passportNumber" gorm:"not null;index"`
	FullName       string    `json:"fullName" gorm:"not null"`
	PhoneNumber    string    `json:"phoneNumber" gorm:"not null"`
	Email          string    `json:"email" gorm:"not null"`
	NationalID     string    `json:"nationalId" gorm:"not null"`
	PassportImage  string    `json:"passportImage" gorm:"type:text;not null"`
	WorkType       string    `json:"workType" gorm:"not null"`
	Workplace      Workplace `json:"workplace" gorm:"type:varchar(32);not null"`
	Gender         Gender    `json:"gender" gorm:"type:varchar(8);not null"`
	CreatedBy      int64     `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
}
