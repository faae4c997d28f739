package avatar_http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pinstack-blog-service/internal/custom_errors"
	ports "pinstack-blog-service/internal/domain/ports/output"
	image_codec "pinstack-blog-service/internal/domain/ports/output/image"
	"pinstack-blog-service/internal/infrastructure/outbound/imaging"
)

// NewHTTPClient returns the client used for avatar downloads. Redirects follow
// the net/http default policy.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type Fetcher struct {
	client  *http.Client
	codec   image_codec.Codec
	maxSize int64
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewFetcher(client *http.Client, codec image_codec.Codec, maxSize int64, log ports.Logger, metrics ports.MetricsProvider) *Fetcher {
	return &Fetcher{
		client:  client,
		codec:   codec,
		maxSize: maxSize,
		log:     log,
		metrics: metrics,
	}
}

// Fetch performs a single GET without retries and returns the avatar
// re-encoded as PNG.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	data, outcome, err := f.fetch(ctx, url)
	f.metrics.IncrementAvatarFetches(outcome)
	f.metrics.RecordAvatarFetchDuration(time.Since(start))
	if err != nil {
		f.log.Warn("Avatar download failed",
			slog.String("url", url),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()))
		return nil, err
	}
	f.log.Debug("Avatar downloaded", slog.String("url", url), slog.Int("bytes", len(data)))
	return data, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "bad_request", custom_errors.AvatarDownload(err.Error())
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportOutcome(ctx), custom_errors.AvatarDownload(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "bad_status", custom_errors.AvatarDownload(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	f.log.Debug("Avatar content type", slog.String("content_type", contentType))
	if mediaType, _, err := mime.ParseMediaType(contentType); err != nil || mediaType != imaging.CanonicalContentType {
		return nil, "bad_content_type", custom_errors.AvatarDownload("Invalid avatar image type")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, transportOutcome(ctx), custom_errors.AvatarDownload(err.Error())
	}
	if int64(len(body)) > f.maxSize {
		return nil, "too_large", custom_errors.FileTooLarge(f.maxSize)
	}

	canonical, err := f.codec.Normalize(body)
	if err != nil {
		return nil, "invalid_image", err
	}
	return canonical, "ok", nil
}

// transportOutcome separates a caller that went away from a remote host that
// failed.
func transportOutcome(ctx context.Context) string {
	if ctx.Err() != nil {
		return "cancelled"
	}
	return "transport_error"
}
