package export

import (
	"encoding/base64"
	"strings"
)

// decodeDataURI extracts image bytes from a base64 data URI. Only PNG and
// JPEG are accepted since those are what the PDF renderer embeds.
func decodeDataURI(uri string) ([]byte, string, bool) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, "", false
	}

	var ext string
	switch strings.TrimSuffix(meta, ";base64") {
	case "image/png":
		ext = "png"
	case "image/jpeg", "image/jpg":
		ext = "jpg"
	default:
		return nil, "", false
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", false
	}
	return data, ext, true
}
