package models

import "time"

type Team struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"createdBy" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TeamMember is a history row: it records that a user was added to a team.
// Current membership lives in User.TeamID.
type TeamMember struct {
	ID      int64     `json:"id" gorm:"primaryKey"`
	TeamID  int64     `json:"teamId" gorm:"index;not null"`
	UserID  int64     `json:"userId" gorm:"index;not null"`
	AddedBy int64     `json:"addedBy" gorm:"not null"`
	AddedAt time.Time `json:"addedAt" gorm:"autoCreateTime"`
}
