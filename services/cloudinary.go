package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryService stores product and mart imagery.
type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

var Cloudinary *CloudinaryService

func InitializeCloudinary(cloudinaryURL string) error {
	if cloudinaryURL == "" {
		return fmt.Errorf("cloudinary URL is required")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	Cloudinary = &CloudinaryService{cld: cld}
	return nil
}

func (cs *CloudinaryService) UploadImage(file multipart.File, folder string) (*uploader.UploadResult, error) {
	ctx := context.Background()

	publicID := fmt.Sprintf("%s/%d", folder, time.Now().UnixNano())
	useFilename := true
	uniqueFilename := true
	overwrite := false

	result, err := cs.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		UseFilename:    &useFilename,
		UniqueFilename: &uniqueFilename,
		Overwrite:      &overwrite,
		ResourceType:   "image",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	normalizeResultURLs(result)
	return result, nil
}

func (cs *CloudinaryService) UploadImageFromBytes(data []byte, folder, filename string) (*uploader.UploadResult, error) {
	ctx := context.Background()

	publicID := fmt.Sprintf("%s/%s_%d", folder, strings.TrimSuffix(filename, filepath.Ext(filename)), time.Now().UnixNano())
	useFilename := true
	uniqueFilename := true
	overwrite := false

	result, err := cs.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		UseFilename:    &useFilename,
		UniqueFilename: &uniqueFilename,
		Overwrite:      &overwrite,
		ResourceType:   "image",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	normalizeResultURLs(result)
	return result, nil
}

func (cs *CloudinaryService) DeleteImage(publicID string) error {
	_, err := cs.cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// normalizeResultURLs forces https so stored URLs are never blocked on
// mixed-content pages.
func normalizeResultURLs(result *uploader.UploadResult) {
	if result == nil {
		return
	}
	if result.URL != "" {
		result.URL = forceHTTPS(result.URL)
	}
	if result.SecureURL != "" {
		result.SecureURL = forceHTTPS(result.SecureURL)
	} else if result.URL != "" {
		result.SecureURL = result.URL
	}
}

func forceHTTPS(in string) string {
	out := strings.TrimSpace(in)
	return strings.Replace(out, "http://", "https://", 1)
}
