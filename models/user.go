package models

import (
	"time"
)

type User struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null"`
	Email     string    `json:"email,omitempty"`
	CreatedBy *int64    `json:"createdBy"`
	TeamID    *int64    `json:"teamId" gorm:"index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// InTeam reports whether the user currently belongs to teamID.
func (u *User) InTeam(teamID int64) bool {
	return u != nil && u.TeamID != nil && *u.TeamID == teamID
}
