package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// FilesystemStore writes one file per appointment under dir. Writes go to a
// temp file that is renamed into place, so readers never observe a partial
// document.
type FilesystemStore struct {
	dir string
}

func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("blob directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &FilesystemStore{dir: dir}, nil
}

func (f *FilesystemStore) path(appointmentID int64) string {
	return filepath.Join(f.dir, strconv.FormatInt(appointmentID, 10)+".pdf")
}

func (f *FilesystemStore) Put(ctx context.Context, appointmentID int64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp := filepath.Join(f.dir, ".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp, f.path(appointmentID)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit blob: %w", err)
	}
	return nil
}

func (f *FilesystemStore) Get(ctx context.Context, appointmentID int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(appointmentID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}
