// Package storage is the blob store for profile and catalog images. Files
// land under a local directory served statically; callers persist the
// returned public URL on the owning record.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the route the upload directory is served under.
const URLPrefix = "/uploads"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var ErrUnsupportedType = errors.New("unsupported image type (jpg, jpeg, png, webp)")

// Store writes uploaded images to dir.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save persists the uploaded file under a random name and returns its public
// URL path. The original filename only contributes its extension.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return URLPrefix + "/" + name, nil
}

// Dir returns the backing directory, for static serving.
func (s *Store) Dir() string {
	return s.dir
}
