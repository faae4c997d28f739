package post_http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"

	"pinstack-blog-service/internal/custom_errors"
	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
	"pinstack-blog-service/internal/infrastructure/outbound/imaging"
)

var tracer = otel.Tracer("pinstack-blog-service/http")

const (
	fieldText      = "text"
	fieldUsername  = "username"
	fieldAvatarURL = "user_avatar_url"
	fieldImage     = "image"

	// text fields are far below this even at the longest allowed post
	maxValueSize = 64 << 10
)

// FieldExtractor streams a multipart body into a Submission.
type FieldExtractor struct {
	maxFileSize int64
	log         ports.Logger
}

func NewFieldExtractor(maxFileSize int64, log ports.Logger) *FieldExtractor {
	return &FieldExtractor{maxFileSize: maxFileSize, log: log}
}

// BodyLimit bounds a whole request: one file part plus the text fields and
// multipart framing.
func (e *FieldExtractor) BodyLimit() int64 {
	return e.maxFileSize + 4*maxValueSize
}

func (e *FieldExtractor) Extract(ctx context.Context, r *http.Request) (*model.Submission, error) {
	_, span := tracer.Start(ctx, "FieldExtractor.Extract")
	defer span.End()

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, custom_errors.Validation("Request body must be multipart/form-data")
	}

	sub := &model.Submission{}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, e.framingError(err)
		}

		err = e.readPart(part, sub)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
	}
	return sub, nil
}

func (e *FieldExtractor) readPart(part *multipart.Part, sub *model.Submission) error {
	name := part.FormName()
	switch name {
	case "":
		return custom_errors.Validation("Missing field name")
	case fieldText:
		value, err := e.readRequired(part, name, "Text is required")
		if err != nil {
			return err
		}
		sub.Text = &value
	case fieldUsername:
		value, err := e.readRequired(part, name, "Username is required")
		if err != nil {
			return err
		}
		sub.Username = &value
	case fieldAvatarURL:
		value, err := e.readValue(part, name)
		if err != nil {
			return err
		}
		if value != "" {
			sub.UserAvatarURL = &value
		}
	case fieldImage:
		return e.readImage(part, sub)
	default:
		e.log.Warn("Unknown field received", slog.String("field", name))
	}
	return nil
}

func (e *FieldExtractor) readRequired(part *multipart.Part, name, emptyMessage string) (string, error) {
	value, err := e.readValue(part, name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return "", custom_errors.Validation(emptyMessage)
	}
	return value, nil
}

func (e *FieldExtractor) readValue(part *multipart.Part, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxValueSize+1))
	if err != nil {
		return "", e.framingError(err)
	}
	if len(data) > maxValueSize {
		return "", custom_errors.Validation(fmt.Sprintf("Field %s is too long", name))
	}
	if !utf8.Valid(data) {
		return "", custom_errors.Validation(fmt.Sprintf("Invalid %s field: not valid UTF-8", name))
	}
	return string(data), nil
}

func (e *FieldExtractor) readImage(part *multipart.Part, sub *model.Submission) error {
	if part.FileName() == "" {
		return nil
	}
	if declared := part.Header.Get("Content-Type"); declared != "" {
		mediaType, _, err := mime.ParseMediaType(declared)
		if err != nil || mediaType != imaging.CanonicalContentType {
			return custom_errors.InvalidFileType()
		}
	}
	if sub.ImageData != nil {
		return custom_errors.Validation("Only one image may be uploaded")
	}

	data, err := io.ReadAll(io.LimitReader(part, e.maxFileSize+1))
	if err != nil {
		return e.framingError(err)
	}
	if int64(len(data)) > e.maxFileSize {
		return custom_errors.FileTooLarge(e.maxFileSize)
	}
	if len(data) > 0 {
		sub.ImageData = data
	}
	return nil
}

func (e *FieldExtractor) framingError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return custom_errors.FileTooLarge(e.maxFileSize)
	}
	return custom_errors.Internal(fmt.Errorf("read multipart body: %w", err))
}
