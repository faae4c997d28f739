package events_nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
)

const SubjectPostCreated = "post.created"

type PostCreatedEvent struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	HasImage    bool      `json:"has_image"`
	HasAvatar   bool      `json:"has_avatar"`
	PublishedAt time.Time `json:"published_at"`
}

type Publisher struct {
	nc  *nats.Conn
	log ports.Logger
}

func NewPublisher(nc *nats.Conn, log ports.Logger) *Publisher {
	return &Publisher{nc: nc, log: log}
}

// Connect dials url with reconnects enabled for the lifetime of the process.
func Connect(url string, log ports.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("blog-service"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
}

func (p *Publisher) PublishPostCreated(ctx context.Context, post *model.Post) error {
	msg, err := NewPostCreatedMsg(ctx, post)
	if err != nil {
		return err
	}

	p.log.Debug("Publishing event", slog.String("subject", msg.Subject), slog.String("post_id", post.ID.String()))
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}
	return nil
}

// NewPostCreatedMsg builds the post.created message and carries the trace
// context of ctx in its headers.
func NewPostCreatedMsg(ctx context.Context, post *model.Post) (*nats.Msg, error) {
	event := PostCreatedEvent{
		ID:          post.ID.String(),
		Username:    post.Username,
		HasImage:    post.ImagePath != nil,
		HasAvatar:   post.UserAvatarPath != nil,
		PublishedAt: post.PublishedAt.Time,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal post created event: %w", err)
	}

	msg := &nats.Msg{
		Subject: SubjectPostCreated,
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return msg, nil
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishPostCreated(context.Context, *model.Post) error { return nil }
