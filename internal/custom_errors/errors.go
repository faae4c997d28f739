package custom_errors

import (
	"fmt"
	"net/http"
	"strings"
)

type Kind int

const (
	KindInvalidFileType Kind = iota + 1
	KindFileTooLarge
	KindValidation
	KindAvatarDownload
	KindDatabase
	KindIO
	KindImage
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidFileType:
		return "invalid_file_type"
	case KindFileTooLarge:
		return "file_too_large"
	case KindValidation:
		return "validation"
	case KindAvatarDownload:
		return "avatar_download"
	case KindDatabase:
		return "database"
	case KindIO:
		return "io"
	case KindImage:
		return "image"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Error is the failure type of the submission pipeline. Detail is shown to the
// client, Cause is only ever logged.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error

	client bool
}

var (
	ErrInvalidFileType = &Error{Kind: KindInvalidFileType}
	ErrFileTooLarge    = &Error{Kind: KindFileTooLarge}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrAvatarDownload  = &Error{Kind: KindAvatarDownload}
	ErrDatabase        = &Error{Kind: KindDatabase}
	ErrIO              = &Error{Kind: KindIO}
	ErrImage           = &Error{Kind: KindImage}
	ErrInternal        = &Error{Kind: KindInternal}
)

func InvalidFileType() *Error {
	return &Error{Kind: KindInvalidFileType}
}

func FileTooLarge(limit int64) *Error {
	return &Error{Kind: KindFileTooLarge, Detail: formatSize(limit)}
}

// Validation joins every violation into a single reported message.
func Validation(violations ...string) *Error {
	return &Error{Kind: KindValidation, Detail: strings.Join(violations, "; ")}
}

func AvatarDownload(detail string) *Error {
	return &Error{Kind: KindAvatarDownload, Detail: detail}
}

func Database(cause error) *Error {
	return &Error{Kind: KindDatabase, Cause: cause}
}

func IO(cause error) *Error {
	return &Error{Kind: KindIO, Cause: cause}
}

func Image(cause error) *Error {
	return &Error{Kind: KindImage, Cause: cause}
}

// ImageDecode reports bytes that claimed to be an image but did not decode.
// The uploader is at fault, so it maps to 400.
func ImageDecode(cause error) *Error {
	return &Error{Kind: KindImage, Detail: "image could not be decoded", Cause: cause, client: true}
}

// ImageTooLarge rejects an image whose declared dimensions exceed maxPixels,
// before any pixel buffer is allocated.
func ImageTooLarge(width, height int, maxPixels int64) *Error {
	return &Error{
		Kind:   KindImage,
		Detail: fmt.Sprintf("image dimensions %dx%d exceed the limit of %d pixels", width, height, maxPixels),
		client: true,
	}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message(), e.Cause)
	}
	return e.Message()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any error of the same kind so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Message is the client-visible summary. It never contains the cause.
func (e *Error) Message() string {
	switch e.Kind {
	case KindInvalidFileType:
		return "Invalid file type. Supported types is only PNG"
	case KindFileTooLarge:
		if e.Detail == "" {
			return "File too large"
		}
		return "File too large. Maximum size is " + e.Detail
	case KindValidation:
		return "Invalid input: " + e.Detail
	case KindAvatarDownload:
		return "Failed to download avatar: " + e.Detail
	case KindDatabase:
		return "Database error"
	case KindIO:
		return "IO error"
	case KindImage:
		if e.Detail != "" {
			return "Image processing error: " + e.Detail
		}
		return "Image processing error"
	}
	return "Internal server error"
}

func (e *Error) StatusCode() int {
	if e.IsClientError() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (e *Error) IsClientError() bool {
	switch e.Kind {
	case KindInvalidFileType, KindFileTooLarge, KindValidation, KindAvatarDownload:
		return true
	}
	return e.client
}

func formatSize(limit int64) string {
	const mb = 1 << 20
	if limit > 0 && limit%mb == 0 {
		return fmt.Sprintf("%dMB", limit/mb)
	}
	return fmt.Sprintf("%d bytes", limit)
}
