package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/meinhoongagan/permit-desk/models"
)

// Migrate creates or updates the tables for every persisted model.
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Client{},
		&models.Appointment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
