// Package upload validates resume files before anything is sent to the
// extraction service.
package upload

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"resume-checker/internal/common/errors"
	"resume-checker/internal/common/metrics"
)

// MaxFileSize is the largest accepted resume, 2 MiB.
const MaxFileSize int64 = 2 << 20

const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var allowedTypes = map[string]struct{}{
	MIMETypePDF:  {},
	MIMETypeDOCX: {},
}

var typesByExtension = map[string]string{
	".pdf":  MIMETypePDF,
	".docx": MIMETypeDOCX,
	".doc":  "application/msword",
	".txt":  "text/plain",
	".rtf":  "application/rtf",
}

// File is a resume selected by the user. It lives only until extraction
// succeeds.
type File struct {
	Name     string
	Size     int64
	MIMEType string
	Content  []byte
}

func (f File) effectiveSize() int64 {
	return max(f.Size, int64(len(f.Content)))
}

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonTooLarge        Reason = "TooLarge"
	ReasonUnsupportedType Reason = "UnsupportedType"
)

type Decision struct {
	Accepted bool
	Reason   Reason
	file     File
}

// Err converts a rejection into a validation error; it is nil when accepted.
func (d Decision) Err() error {
	switch d.Reason {
	case ReasonTooLarge:
		return errors.NewFileTooLargeError(d.file.effectiveSize(), MaxFileSize)
	case ReasonUnsupportedType:
		return errors.NewUnsupportedTypeError(d.file.MIMEType)
	default:
		return nil
	}
}

// Validate checks size first so an oversized file is TooLarge whatever its
// type. The size is the larger of the declared size and the content length.
func Validate(f File) Decision {
	if f.effectiveSize() > MaxFileSize {
		metrics.UploadRejections.WithLabelValues(string(ReasonTooLarge)).Inc()
		return Decision{Reason: ReasonTooLarge, file: f}
	}
	if _, ok := allowedTypes[NormalizeMIME(f.MIMEType)]; !ok {
		metrics.UploadRejections.WithLabelValues(string(ReasonUnsupportedType)).Inc()
		return Decision{Reason: ReasonUnsupportedType, file: f}
	}
	return Decision{Accepted: true, file: f}
}

// NormalizeMIME lower-cases the media type and strips parameters.
func NormalizeMIME(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mediaType
}

// TypeForExtension returns the declared MIME type for a file name, or
// "application/octet-stream" when the extension is unknown.
func TypeForExtension(name string) string {
	if t, ok := typesByExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "application/octet-stream"
}

// FromPath reads a file from disk, declaring its MIME type from the
// extension. The file is not validated.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat resume: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("resume path %s is a directory", path)
	}

	f := File{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: TypeForExtension(path),
	}
	// Oversized files are rejected without being read.
	if f.Size > MaxFileSize {
		return f, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read resume: %w", err)
	}
	f.Content = content
	f.Size = int64(len(content))
	return f, nil
}
