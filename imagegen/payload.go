package imagegen

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ImagePayload is the normalized in-memory result of one generation: raw
// bytes plus the content type reported (or sniffed) for them.
type ImagePayload struct {
	Data        []byte
	ContentType string
}

// DataURL encodes the payload as a data URL for clients that render images
// inline instead of fetching them from storage.
func (p *ImagePayload) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", p.ContentType, base64.StdEncoding.EncodeToString(p.Data))
}

// FileExt maps the payload content type to a storage object extension.
func (p *ImagePayload) FileExt() string {
	switch p.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// payloadFromDataURL decodes a "data:image/png;base64,..." string. Some
// backends answer with this shape instead of a binary body.
func payloadFromDataURL(s string) (*ImagePayload, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, DecodeError{Reason: "not a data URL"}
	}

	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, DecodeError{Reason: "malformed data URL"}
	}

	contentType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, DecodeError{Reason: "data URL payload is not valid base64"}
	}

	if contentType == "" {
		contentType = "image/png"
	}
	return &ImagePayload{Data: data, ContentType: contentType}, nil
}
