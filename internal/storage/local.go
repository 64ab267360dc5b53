package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalService keeps uploads in a directory that the web layer serves
// under BaseURL.
type LocalService struct {
	root    string
	baseURL string
}

func NewLocalService(root, baseURL string) (*LocalService, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	return &LocalService{
		root:    filepath.Clean(root),
		baseURL: "/" + strings.Trim(baseURL, "/"),
	}, nil
}

// Root is the directory holding the stored files.
func (s *LocalService) Root() string {
	return s.root
}

// BaseURL is the URL prefix the files are expected to be served under.
func (s *LocalService) BaseURL() string {
	return s.baseURL
}

func (s *LocalService) Put(ctx context.Context, key string, body io.Reader, _ string) error {
	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create file %s: %w", key, err)
	}
	_, err = io.Copy(f, readerWithContext(ctx, body))
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("write file %s: %w", key, err)
	}
	if closeErr != nil {
		return fmt.Errorf("close file %s: %w", key, closeErr)
	}
	return nil
}

func (s *LocalService) URL(_ context.Context, key string) (string, error) {
	cleaned, ok := cleanKey(key)
	if !ok {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return path.Join(s.baseURL, cleaned), nil
}

func (s *LocalService) Delete(_ context.Context, key string) error {
	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *LocalService) path(key string) (string, error) {
	cleaned, ok := cleanKey(key)
	if !ok {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var _ Service = (*LocalService)(nil)
