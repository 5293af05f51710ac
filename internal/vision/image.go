package vision

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/hammamikhairi/nutriplan/internal/domain"
)

// MaxImageBytes caps the decoded image size.
const MaxImageBytes = 20 << 20

const dataURLPrefix = "data:image/"

// ValidateImage checks that dataURL is a base64 image data URL of
// acceptable size and returns its media type and decoded bytes.
func ValidateImage(dataURL string) (mediaType string, data []byte, err error) {
	invalid := func(format string, args ...any) error {
		return &Error{Kind: KindInvalidImage, Err: fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)}
	}

	if dataURL == "" {
		return "", nil, invalid("image is empty")
	}
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return "", nil, invalid("image must be a %s... data URL", dataURLPrefix)
	}
	header, encoded, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, invalid("image must be base64 encoded")
	}
	mediaType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mediaType == "image/" {
		return "", nil, invalid("image media type is missing")
	}
	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxImageBytes+3 {
		return "", nil, invalid("image exceeds %d MiB", MaxImageBytes>>20)
	}
	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, invalid("image payload is not valid base64")
	}
	if len(data) == 0 {
		return "", nil, invalid("image payload is empty")
	}
	if len(data) > MaxImageBytes {
		return "", nil, invalid("image exceeds %d MiB", MaxImageBytes>>20)
	}
	return mediaType, data, nil
}

// EncodeDataURL builds a data URL from raw image bytes.
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
