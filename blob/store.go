// Package blob stores uploaded PDF documents keyed by appointment id.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document is stored for an appointment.
var ErrNotFound = errors.New("blob not found")

// Store defines put/get of document bytes keyed by appointment id.
// Implementations must be safe for concurrent use; concurrent writes to the
// same id are last-write-wins.
type Store interface {
	Put(ctx context.Context, appointmentID int64, data []byte) error
	Get(ctx context.Context, appointmentID int64) ([]byte, error)
}
