package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage persists a blob and returns the URL clients use to fetch it.
type Storage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// LocalStorage writes files under Dir and serves them from PublicURL.
type LocalStorage struct {
	Dir       string
	PublicURL string
}

func NewLocalStorage(dir, publicURL string) *LocalStorage {
	return &LocalStorage{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/")}
}

func (s *LocalStorage) Save(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.Dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return s.PublicURL + "/" + name, nil
}
