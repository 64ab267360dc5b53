package storage

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"
)

// Service stores uploaded files such as profile pictures.
type Service interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	// URL returns an address a browser can load the object from.
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// MaxFilenameLength bounds sanitized names so generated keys fit the
// profile_pic column.
const MaxFilenameLength = 100

// SanitizeFilename reduces an uploaded file name to a safe single path
// segment of at most MaxFilenameLength bytes, keeping a short extension.
// It returns an empty string when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" || name == "." {
		return ""
	}
	if len(name) > MaxFilenameLength {
		ext := path.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = name[:MaxFilenameLength-len(ext)] + ext
	}
	return name
}

func cleanKey(key string) (string, bool) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", false
	}
	return cleaned, true
}
