package blob

import (
	"fmt"

	"github.com/meinhoongagan/permit-desk/config"
)

// Open builds the backend named in cfg.Backend.
func Open(cfg config.BlobConfig, cld config.CloudinaryConfig) (Store, error) {
	switch cfg.Backend {
	case config.BlobMemory:
		return NewMemoryStore(), nil
	case config.BlobFilesystem:
		fs, err := NewFilesystemStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.BlobCloudinary:
		cs, err := NewCloudinaryStore(cld)
		if err != nil {
			return nil, err
		}
		return cs, nil
	}
	return nil, fmt.Errorf("unsupported blob backend %q", cfg.Backend)
}
