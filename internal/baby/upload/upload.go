// Package upload is the boundary every medical-record file passes through
// before the store sees it: an allow-list of MIME types, a per-file size
// ceiling, and data-URL encoding of the payload.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"

	"nestcare/internal/baby/store"
)

// MaxFileSize is the per-file ceiling in bytes.
const MaxFileSize = 5 << 20

var allowedTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

var (
	ErrTypeNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge   = errors.New("file exceeds 5 MB limit")
	ErrEmptyFile      = errors.New("file is empty")
)

// Validate checks the MIME type and size against the boundary rules.
func Validate(mimeType string, size int64) error {
	if !allowedTypes[mimeType] {
		return fmt.Errorf("%w: %s", ErrTypeNotAllowed, mimeType)
	}
	if size == 0 {
		return ErrEmptyFile
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// EncodeDataURL encodes a payload as a data URL with its MIME prefix,
// the inline form medical records persist in.
func EncodeDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// RecordParams validates one uploaded file and converts it into the
// store's medical-record input.
func RecordParams(name, mimeType string, data []byte) (store.MedicalRecordParams, error) {
	if err := Validate(mimeType, int64(len(data))); err != nil {
		return store.MedicalRecordParams{}, err
	}
	return store.MedicalRecordParams{
		Name: name,
		Type: mimeType,
		Size: int64(len(data)),
		Data: EncodeDataURL(mimeType, data),
	}, nil
}
