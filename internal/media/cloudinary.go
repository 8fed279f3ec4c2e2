package media

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

// Asset is the stable reference returned for an uploaded image.
type Asset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Uploader stores image bytes with an object-storage provider.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder string) (Asset, error)
}

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary builds a client from a cloudinary:// URL.
func NewCloudinary(url string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, folder string) (Asset, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: folder})
	if err != nil {
		return Asset{}, apperr.Wrap(apperr.Upstream, "image upload failed", err)
	}
	return Asset{PublicID: res.PublicID, URL: res.SecureURL}, nil
}
