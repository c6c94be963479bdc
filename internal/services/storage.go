package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService manages the working area where uploads live for the
// duration of one request. Names are prefixed with the task id, so concurrent
// requests never collide and no locking is needed.
type StorageService interface {
	EnsureUploadDir() error
	SaveUpload(taskID uuid.UUID, ordinal int, filename string, content []byte) (string, error)
	DeleteFile(path string) error
	UploadDir() string
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) UploadDir() string {
	return s.uploadPath
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveUpload writes content to <dir>/<taskID>_<ordinal>_<basename> and
// returns the path. The ordinal keeps same-named uploads in one batch apart;
// the extension is preserved for format dispatch.
func (s *storageService) SaveUpload(taskID uuid.UUID, ordinal int, filename string, content []byte) (string, error) {
	name := fmt.Sprintf("%s_%d_%s", taskID, ordinal, SanitizeFilename(filename))
	filePath := filepath.Join(s.uploadPath, name)

	dst, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := dst.Write(content); err != nil {
		dst.Close()
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SanitizeFilename strips any directory component a client may send.
func SanitizeFilename(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload"
	}
	return name
}
