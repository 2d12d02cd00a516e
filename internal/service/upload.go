package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/barahweb/shop-api/internal/models"
	"github.com/google/uuid"
)

// maxUploadSize caps product image uploads at 5 MB.
const maxUploadSize = 5 * 1024 * 1024

// ErrFileTooLarge is returned for uploads over the size cap.
var ErrFileTooLarge = errors.New("file exceeds maximum size of 5MB")

// ErrUnsupportedFileType is returned for non-image uploads.
var ErrUnsupportedFileType = errors.New("only image files are allowed")

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// StoredFile describes a file persisted by the upload service.
type StoredFile struct {
	Filename     string
	OriginalName string
	Path         string
	URL          string
	Size         int64
	MimeType     string
}

// ToModel converts the stored file into a ProductImage row for the
// given product.
func (f *StoredFile) ToModel(productID int64) models.ProductImage {
	return models.ProductImage{
		ProductID:    productID,
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		Path:         f.Path,
		URL:          f.URL,
		Size:         f.Size,
		MimeType:     f.MimeType,
	}
}

// UploadService stores product images on local disk under a configured
// directory, with random filenames so uploads never collide.
type UploadService struct {
	dir     string
	baseURL string
}

// NewUploadService creates the upload directory if needed.
func NewUploadService(dir, baseURL string) (*UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &UploadService{dir: dir, baseURL: baseURL}, nil
}

// Save validates and stores an uploaded image.
func (s *UploadService) Save(header *multipart.FileHeader) (*StoredFile, error) {
	if header.Size > maxUploadSize {
		return nil, ErrFileTooLarge
	}

	mimeType := header.Header.Get("Content-Type")
	if !allowedImageTypes[mimeType] {
		return nil, ErrUnsupportedFileType
	}

	filename := uuid.NewString() + filepath.Ext(header.Filename)
	dst := filepath.Join(s.dir, filename)

	if err := s.copyFile(header, dst); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	return &StoredFile{
		Filename:     filename,
		OriginalName: header.Filename,
		Path:         dst,
		URL:          s.FileURL(filename),
		Size:         header.Size,
		MimeType:     mimeType,
	}, nil
}

func (s *UploadService) copyFile(header *multipart.FileHeader, dst string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// FileURL returns the public URL for a stored filename.
func (s *UploadService) FileURL(filename string) string {
	return fmt.Sprintf("%s/uploads/products/%s", s.baseURL, filename)
}

// Delete removes a stored file. Missing files are not an error.
func (s *UploadService) Delete(filename string) error {
	path := filepath.Join(s.dir, filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", filename, err)
	}
	return nil
}
