package storage

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var client *cloudinary.Cloudinary

// Init creates the blob store client from CLOUDINARY_URL
func Init() {
	c, err := cloudinary.New()
	if err != nil {
		log.Printf("Cannot create blob store client: %v", err)
		return
	}

	client = c
}

// Upload sends the image (raw data URI) to the blob store
// and returns its canonical URL
func Upload(ctx context.Context, dataURI string) (string, error) {
	if client == nil {
		return "", errors.New("blob store not configured")
	}

	res, err := client.Upload.Upload(ctx, dataURI, uploader.UploadParams{})
	if err != nil {
		return "", err
	}

	return res.SecureURL, nil
}

// Destroy removes a blob by its public identifier
func Destroy(ctx context.Context, publicID string) error {
	if client == nil {
		return errors.New("blob store not configured")
	}

	_, err := client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// PublicID derives the blob identifier from a canonical URL:
// the final path segment minus its extension.
func PublicID(url string) string {
	segment := url
	if i := strings.LastIndex(segment, "/"); i != -1 {
		segment = segment[i+1:]
	}
	if i := strings.Index(segment, "."); i != -1 {
		segment = segment[:i]
	}

	return segment
}
