package settings

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoders
	_ "image/jpeg" // for imaging.Decode
	"image/png"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned when a logo file is not a decodable image.
var ErrNotImage = errors.New("logo file is not a supported image")

// DefaultLogoMaxWidth bounds stored logos; the PDF header never prints wider.
const DefaultLogoMaxWidth = 512

// LoadLogo reads the image at path, downsizes it to at most maxWidth pixels
// wide and returns it as a PNG data URI ready for BusinessProfile.LogoDataURI.
func LoadLogo(path string, maxWidth int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading logo: %w", err)
	}
	return EncodeLogo(data, maxWidth)
}

// EncodeLogo is LoadLogo over bytes already in memory.
func EncodeLogo(data []byte, maxWidth int) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	if maxWidth <= 0 {
		maxWidth = DefaultLogoMaxWidth
	}
	img = fit(img, maxWidth)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding logo: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func fit(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	return imaging.Fit(img, maxWidth, b.Dy(), imaging.Lanczos)
}
