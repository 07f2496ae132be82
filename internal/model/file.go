package model

import (
	"encoding/base64"
	"fmt"
)

// File is a transient representation of a Drive file. Data is only populated
// by a content fetch; Name is only populated by a metadata fetch.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
	Size     string `json:"size,omitempty"`
}

// NormalizedImage is the output of format normalization: a single raster
// image, base64-encoded, with its resolved media type.
type NormalizedImage struct {
	Base64   string
	MimeType string
}

// DataURL renders the image as a data URL suitable for multimodal AI requests.
func (n NormalizedImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", n.MimeType, n.Base64)
}

// NewNormalizedImage base64-encodes raw raster bytes under the given media type.
func NewNormalizedImage(raw []byte, mimeType string) NormalizedImage {
	return NormalizedImage{
		Base64:   base64.StdEncoding.EncodeToString(raw),
		MimeType: mimeType,
	}
}
