package settings

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func decodeURI(t *testing.T, uri string) image.Image {
	t.Helper()
	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestLoadLogo_Downsizes(t *testing.T) {
	uri, err := LoadLogo(writePNG(t, 800, 400), 200)
	require.NoError(t, err)
	img := decodeURI(t, uri)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestLoadLogo_SmallImageUntouched(t *testing.T) {
	uri, err := LoadLogo(writePNG(t, 40, 20), 0)
	require.NoError(t, err)
	assert.Equal(t, 40, decodeURI(t, uri).Bounds().Dx())
}

func TestLoadLogo_RejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o600))
	_, err := LoadLogo(path, 100)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLoadLogo_MissingFile(t *testing.T) {
	_, err := LoadLogo(filepath.Join(t.TempDir(), "nope.png"), 100)
	assert.Error(t, err)
}
