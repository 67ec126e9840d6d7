package utils

import (
	"bytes"
	"io"
	"mime/multipart"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageKey(t *testing.T) {
	key := ImageKey("u1", "Järvi Taimen", "IMG_001.JPEG")
	assert.Regexp(t, regexp.MustCompile(`^catches/u1/jarvi-taimen-[0-9a-f-]{36}\.jpeg$`), key)

	assert.Regexp(t, `^catches/u1/catch-`, ImageKey("u1", "!!!", "x.png"))
	assert.NotEqual(t, ImageKey("u1", "Pike", "a.jpg"), ImageKey("u1", "Pike", "a.jpg"))
}

func TestImageContentType(t *testing.T) {
	tests := []struct {
		name string
		size int64
		ct   string
		ok   bool
	}{
		{"pike.jpg", 100, "image/jpeg", true},
		{"pike.PNG", 100, "image/png", true},
		{"pike.heic", 100, "image/heic", true},
		{"pike.gif", 100, "", false},
		{"pike", 100, "", false},
		{"huge.jpg", MaxImageSize + 1, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ok := ImageContentType(&multipart.FileHeader{Filename: tt.name, Size: tt.size})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ct, ct)
		})
	}
	_, ok := ImageContentType(nil)
	assert.False(t, ok)
}

func TestReadUpload(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("images", "pike.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("pike"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	defer form.RemoveAll()

	r, ct, err := ReadUpload(form.File["images"][0])
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", ct)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "pike", string(data))
}

func TestNewLoggerLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewLogger("fishlog", "debug").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("fishlog", "loud").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("fishlog", "").GetLevel())
}
