package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BookingDetails is stored as a JSON column on the appointment row.
type BookingDetails struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Value implements the driver.Valuer interface
func (b BookingDetails) Value() (driver.Value, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (b *BookingDetails) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal BookingDetails: unsupported type %T", value)
	}

	return json.Unmarshal(data, b)
}
