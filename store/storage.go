// Package store is the entity store: create/read/update over users, teams,
// team members, clients and appointments. Rows are never deleted.
//
// Every Get by id returns (nil, nil) when the id is not positive or no row
// exists. Database failures come back as apperr Internal errors.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/meinhoongagan/permit-desk/apperr"
)

// Storage wraps an explicitly provided gorm connection.
type Storage struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db, now: time.Now}
}

// Ping verifies the datasource is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// withTx executes fn inside a transaction, rolling back on error/panic.
func (s *Storage) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperr.Internal(tx.Error, "begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return apperr.Internal(err, "commit transaction")
	}
	return nil
}

// findByID loads one row of T, returning (nil, nil) for non-positive ids and
// missing rows.
func findByID[T any](tx *gorm.DB, id int64) (*T, error) {
	if id <= 0 {
		return nil, nil
	}
	var row T
	err := tx.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "loading record")
	}
	return &row, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
