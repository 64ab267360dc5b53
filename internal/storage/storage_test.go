package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"my photo.png":          "my_photo.png",
		"../../etc/passwd":      "passwd",
		`C:\Users\me\pic.jpg`:   "pic.jpg",
		".hidden":               "hidden",
		"ünï©ode.png":           "node.png",
		"":                      "",
		"   ":                   "",
		"report (final) v2.pdf": "report_final_v2.pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("a", 300) + ".png"
	got := SanitizeFilename(long)
	assert.Len(t, got, MaxFilenameLength)
	assert.True(t, strings.HasSuffix(got, ".png"))

	noExt := SanitizeFilename(strings.Repeat("b", 250) + "." + strings.Repeat("c", 40))
	assert.Len(t, noExt, MaxFilenameLength)

	assert.Equal(t, "short.png", SanitizeFilename("short.png"))
}

func TestCleanKey(t *testing.T) {
	key, ok := cleanKey("profile/a.png")
	assert.True(t, ok)
	assert.Equal(t, "profile/a.png", key)

	key, ok = cleanKey("../../profile/../a.png")
	assert.True(t, ok)
	assert.Equal(t, "a.png", key)

	_, ok = cleanKey("  ")
	assert.False(t, ok)
	_, ok = cleanKey("/")
	assert.False(t, ok)
}
