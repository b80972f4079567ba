package filestorage

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// ListingPhotosFolder is the folder listing photos are stored under
const ListingPhotosFolder = "book_rental"

// MaxImageSize bounds an uploaded photo
const MaxImageSize = 5 * 1024 * 1024

var (
	ErrFileTooBig      = errors.New("file size exceeds 5MB limit")
	ErrInvalidFileType = errors.New("invalid file type, only JPEG, PNG and WEBP images are allowed")
)

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageStore stores uploaded images and returns publicly reachable URLs
type ImageStore interface {
	// Save stores the uploaded file under folder and returns its public URL
	Save(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error)

	// Delete removes a previously saved image given its public URL
	Delete(ctx context.Context, fileURL string) error
}

// validateImage checks the size and extension of an upload and returns its content type
func validateImage(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > MaxImageSize {
		return "", ErrFileTooBig
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return "", ErrInvalidFileType
	}

	return contentType, nil
}

// objectKeyFromURL strips baseURL from fileURL, leaving the stored key
func objectKeyFromURL(baseURL, fileURL string) string {
	key := fileURL
	if baseURL != "" {
		key = strings.TrimPrefix(key, strings.TrimRight(baseURL, "/"))
	}
	return strings.TrimLeft(key, "/")
}
