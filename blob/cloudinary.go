package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/meinhoongagan/permit-desk/config"
)

// CloudinaryStore uploads documents as authenticated raw assets. Their
// delivery URLs only resolve when signed with the account secret, so the
// access check in front of Get stays the single way to read a document.
type CloudinaryStore struct {
	cld          *cloudinary.Cloudinary
	folder       string
	uploadPreset string
	httpClient   *http.Client
}

func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStore{
		cld:          cld,
		folder:       cfg.Folder,
		uploadPreset: cfg.UploadPreset,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// publicID keeps the folder inside the id so the delivery URL does not
// depend on the account's folder mode.
func (c *CloudinaryStore) publicID(appointmentID int64) string {
	name := "appointment-" + strconv.FormatInt(appointmentID, 10) + ".pdf"
	if c.folder != "" {
		return c.folder + "/" + name
	}
	return name
}

func (c *CloudinaryStore) uploadParams(appointmentID int64) uploader.UploadParams {
	return uploader.UploadParams{
		PublicID:     c.publicID(appointmentID),
		ResourceType: "raw",
		Type:         api.Authenticated,
		Overwrite:    api.Bool(true),
		Invalidate:   api.Bool(true),
		UploadPreset: c.uploadPreset,
	}
}

// signedURL builds a delivery URL for the authenticated asset. Unsigned
// URLs for the same public id are refused by the CDN.
func (c *CloudinaryStore) signedURL(appointmentID int64) (string, error) {
	file, err := c.cld.File(c.publicID(appointmentID))
	if err != nil {
		return "", fmt.Errorf("build cloudinary url: %w", err)
	}
	file.DeliveryType = api.Authenticated
	file.Config.URL.Secure = true
	file.Config.URL.SignURL = true
	return file.String()
}

func (c *CloudinaryStore) Put(ctx context.Context, appointmentID int64, data []byte) error {
	if _, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), c.uploadParams(appointmentID)); err != nil {
		return fmt.Errorf("upload to cloudinary: %w", err)
	}
	return nil
}

func (c *CloudinaryStore) Get(ctx context.Context, appointmentID int64) ([]byte, error) {
	url, err := c.signedURL(appointmentID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch from cloudinary: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch from cloudinary: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
