package vision

import (
	"strings"
	"testing"
)

func TestValidateImage(t *testing.T) {
	mediaType, data, err := ValidateImage(EncodeDataURL("image/png", []byte{0x89, 'P', 'N', 'G'}))
	if err != nil {
		t.Fatalf("ValidateImage: %v", err)
	}
	if mediaType != "image/png" || len(data) != 4 {
		t.Errorf("got %q, %d bytes", mediaType, len(data))
	}

	bad := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"url", "https://example.com/a.jpg"},
		{"not image", "data:text/plain;base64,aGk="},
		{"not base64 marker", "data:image/png,rawbytes"},
		{"no comma", "data:image/png;base64"},
		{"missing subtype", "data:image/;base64,aGk="},
		{"garbage payload", "data:image/png;base64,@@@"},
		{"empty payload", "data:image/png;base64,"},
		{"too large", "data:image/png;base64," + strings.Repeat("A", (MaxImageBytes/3+2)*4)},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ValidateImage(tt.in); KindOf(err) != KindInvalidImage {
				t.Fatalf("expected invalid image, got %v", err)
			}
		})
	}
}
