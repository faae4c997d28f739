package post_service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"pinstack-blog-service/internal/custom_errors"
	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
	asset_store "pinstack-blog-service/internal/domain/ports/output/asset"
	avatar_fetcher "pinstack-blog-service/internal/domain/ports/output/avatar"
	post_events "pinstack-blog-service/internal/domain/ports/output/events"
	image_codec "pinstack-blog-service/internal/domain/ports/output/image"
	post_repository "pinstack-blog-service/internal/domain/ports/output/post"
	"pinstack-blog-service/internal/infrastructure/outbound/repository/postgres"
)

var tracer = otel.Tracer("pinstack-blog-service/post-service")

type PostService struct {
	postRepo  post_repository.Repository
	uow       postgres.UnitOfWork
	assets    asset_store.Store
	codec     image_codec.Codec
	avatars   avatar_fetcher.Fetcher
	events    post_events.Publisher
	validator *PostValidator
	log       ports.Logger
	metrics   ports.MetricsProvider
}

func NewPostService(
	postRepo post_repository.Repository,
	uow postgres.UnitOfWork,
	assets asset_store.Store,
	codec image_codec.Codec,
	avatars avatar_fetcher.Fetcher,
	events post_events.Publisher,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		uow:       uow,
		assets:    assets,
		codec:     codec,
		avatars:   avatars,
		events:    events,
		validator: NewPostValidator(),
		log:       log,
		metrics:   metrics,
	}
}

// CreatePost runs one submission attempt end to end. Either the post row is
// committed and every referenced file exists, or nothing written by this
// attempt survives.
func (s *PostService) CreatePost(ctx context.Context, submission *model.Submission) (result *model.Post, err error) {
	ctx, span := tracer.Start(ctx, "PostService.CreatePost")
	defer span.End()

	guard := newCleanupGuard(s.assets, s.log)
	defer guard.Release(ctx)

	defer func() {
		s.metrics.IncrementPostOperations("create", err == nil)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	validated, err := s.validate(ctx, submission)
	if err != nil {
		s.log.Debug("Post submission rejected", slog.String("error", err.Error()))
		return nil, err
	}

	post := &model.Post{
		Text:     validated.Text(),
		Username: validated.Username(),
	}

	if validated.HasImage() {
		asset, err := s.storeImage(ctx, validated.ImageData())
		if err != nil {
			return nil, err
		}
		guard.Track(asset)
		post.ImagePath = &asset.Filename
	}

	if validated.HasAvatar() {
		asset, err := s.storeAvatar(ctx, validated.UserAvatarURL())
		if err != nil {
			return nil, err
		}
		guard.Track(asset)
		post.UserAvatarPath = &asset.Filename
	}

	createdPost, err := s.savePost(ctx, post)
	if err != nil {
		return nil, err
	}
	guard.Dismiss()

	s.log.Info("Post created",
		slog.String("id", createdPost.ID.String()),
		slog.String("username", createdPost.Username),
		slog.Bool("has_image", createdPost.ImagePath != nil),
		slog.Bool("has_avatar", createdPost.UserAvatarPath != nil))

	if pubErr := s.events.PublishPostCreated(ctx, createdPost); pubErr != nil {
		s.log.Warn("Failed to publish post created event",
			slog.String("id", createdPost.ID.String()),
			slog.String("error", pubErr.Error()))
	}
	return createdPost, nil
}

func (s *PostService) validate(ctx context.Context, submission *model.Submission) (model.ValidatedSubmission, error) {
	_, span := tracer.Start(ctx, "PostService.validate")
	defer span.End()
	return s.validator.Validate(submission)
}

func (s *PostService) storeImage(ctx context.Context, data []byte) (*model.StoredAsset, error) {
	ctx, span := tracer.Start(ctx, "PostService.storeImage")
	defer span.End()

	canonical, err := s.codec.Normalize(data)
	if err != nil {
		s.log.Debug("Uploaded image rejected", slog.String("error", err.Error()))
		return nil, err
	}
	return s.assets.Save(ctx, model.AssetRoleImage, canonical)
}

func (s *PostService) storeAvatar(ctx context.Context, url string) (*model.StoredAsset, error) {
	ctx, span := tracer.Start(ctx, "PostService.fetchAvatar")
	defer span.End()

	canonical, err := s.avatars.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.assets.Save(ctx, model.AssetRoleAvatar, canonical)
}

// savePost opens the transaction only after every asset is on disk; the
// insert is its only statement.
func (s *PostService) savePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	ctx, span := tracer.Start(ctx, "PostService.savePost")
	defer span.End()

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, asDatabaseError(err)
	}

	var txCommitted bool
	defer func() {
		if !txCommitted {
			if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
				s.log.Debug("Transaction rollback after failure", slog.String("error", rollbackErr.Error()))
			}
		}
	}()

	createdPost, err := tx.PostRepository().Create(ctx, post)
	if err != nil {
		s.log.Error("Failed to insert post", slog.String("error", err.Error()))
		return nil, asDatabaseError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, asDatabaseError(err)
	}
	txCommitted = true

	return createdPost, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*model.Post, error) {
	ctx, span := tracer.Start(ctx, "PostService.ListPosts")
	defer span.End()

	posts, err := s.postRepo.List(ctx)
	if err != nil {
		s.metrics.IncrementPostOperations("list", false)
		s.log.Error("Failed to list posts", slog.String("error", err.Error()))
		return nil, asDatabaseError(err)
	}
	s.metrics.IncrementPostOperations("list", true)
	return posts, nil
}

func asDatabaseError(err error) error {
	var cerr *custom_errors.Error
	if errors.As(err, &cerr) {
		return err
	}
	return custom_errors.Database(err)
}
