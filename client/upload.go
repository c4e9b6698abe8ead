package client

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadSize is the largest file a citizen may submit.
const MaxUploadSize = 10 << 20

var allowedUploadTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"application/pdf": true,
}

// Upload is a file that passed local validation and is ready to send.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsImage reports whether a preview can be rendered.
func (u *Upload) IsImage() bool {
	return strings.HasPrefix(u.ContentType, "image/")
}

// NewUpload validates data against the allow-list. The type is sniffed from
// the content; a declared type, when given, must be allowed and agree with it.
func NewUpload(filename string, data []byte, declaredType string) (*Upload, error) {
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	detected := mimetype.Detect(data)
	sniffed := canonicalType(detected.String())
	if !allowedUploadTypes[sniffed] {
		return nil, ErrInvalidFileType
	}

	if declaredType != "" {
		declared := canonicalType(declaredType)
		if !allowedUploadTypes[declared] || declared != sniffed {
			return nil, ErrInvalidFileType
		}
	}

	return &Upload{
		Filename:    filepath.Base(filename),
		ContentType: sniffed,
		Data:        data,
	}, nil
}

// LoadUpload reads and validates the file at path. The extension supplies the
// declared type.
func LoadUpload(path string) (*Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return NewUpload(path, data, mime.TypeByExtension(strings.ToLower(filepath.Ext(path))))
}

// canonicalType strips parameters and folds image/jpg into image/jpeg.
func canonicalType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if mediaType == "image/jpg" {
		return "image/jpeg"
	}
	return mediaType
}
