package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"rentdesk-backend/internal/logger"
)

// LocalStorage keeps files on the local filesystem and serves them through
// the /uploads route of the HTTP API.
type LocalStorage struct {
	baseURL string
	rootDir string
}

func NewLocalStorage(baseURL, rootDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		rootDir: rootDir,
	}, nil
}

// NewIncidentPhotoKey builds a unique key for a photo of the given incident,
// keeping the extension of the uploaded file name.
func NewIncidentPhotoKey(incidentID int32, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("incidents/%d/%s%s", incidentID, uuid.NewString(), ext)
}

func (s *LocalStorage) localPath(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != key || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.rootDir, filepath.FromSlash(cleaned)), nil
}

func (s *LocalStorage) SaveFile(ctx context.Context, key string, reader io.Reader) (int64, error) {
	fullPath, err := s.localPath(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, reader)
	if err != nil {
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	logger.Debug("Stored file", "key", key, "bytes", n)
	return n, nil
}

func (s *LocalStorage) ReadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.localPath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := s.localPath(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := s.localPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + "/uploads/" + key
}

// KeyFromURL is the inverse of URL. It returns false for URLs that do not
// belong to this storage.
func (s *LocalStorage) KeyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/uploads/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
