package post_service

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pinstack-blog-service/internal/custom_errors"
	model "pinstack-blog-service/internal/domain/models"
	"pinstack-blog-service/internal/infrastructure/logger"
	events_nats "pinstack-blog-service/internal/infrastructure/outbound/events/nats"
	"pinstack-blog-service/internal/infrastructure/outbound/imaging"
	metrics "pinstack-blog-service/internal/infrastructure/outbound/metrics/prometheus"
	"pinstack-blog-service/internal/infrastructure/outbound/repository/post/memory"
	"pinstack-blog-service/internal/infrastructure/outbound/storage/filesystem"
	"pinstack-blog-service/internal/testutil"
	asset_store_mock "pinstack-blog-service/mocks/asset"
	avatar_fetcher_mock "pinstack-blog-service/mocks/avatar"
	post_events_mock "pinstack-blog-service/mocks/events"
	post_repository_mock "pinstack-blog-service/mocks/post"
	postgres_mock "pinstack-blog-service/mocks/postgres"
)

func strPtr(s string) *string { return &s }

const avatarURL = "https://example.com/me.png"

var (
	imageAsset  = &model.StoredAsset{Filename: "img.png", Path: "/uploads/img.png", Role: model.AssetRoleImage}
	avatarAsset = &model.StoredAsset{Filename: "avatar_a.png", Path: "/uploads/avatar_a.png", Role: model.AssetRoleAvatar}
)

type serviceMocks struct {
	postRepo *post_repository_mock.Repository
	uow      *postgres_mock.UnitOfWork
	tx       *postgres_mock.Transaction
	assets   *asset_store_mock.Store
	avatars  *avatar_fetcher_mock.Fetcher
	events   *post_events_mock.Publisher
}

func TestPostService_CreatePost(t *testing.T) {
	log := logger.New("test")

	fullSubmission := func() *model.Submission {
		return &model.Submission{
			Text:          strPtr("Hello there, world"),
			Username:      strPtr("alice_01"),
			UserAvatarURL: strPtr(avatarURL),
			ImageData:     testutil.PNG(),
		}
	}

	tests := []struct {
		name        string
		submission  *model.Submission
		mocks       func(m serviceMocks)
		wantErr     bool
		wantErrType error
	}{
		{
			name:       "Success with image and avatar",
			submission: fullSubmission(),
			mocks: func(m serviceMocks) {
				m.assets.On("Save", mock.Anything, model.AssetRoleImage, mock.Anything).Return(imageAsset, nil)
				m.avatars.On("Fetch", mock.Anything, avatarURL).Return(testutil.PNG(), nil)
				m.assets.On("Save", mock.Anything, model.AssetRoleAvatar, mock.Anything).Return(avatarAsset, nil)
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.postRepo)
				m.postRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
					return p.ImagePath != nil && *p.ImagePath == imageAsset.Filename &&
						p.UserAvatarPath != nil && *p.UserAvatarPath == avatarAsset.Filename
				})).Return(&model.Post{Text: "Hello there, world", Username: "alice_01"}, nil)
				m.tx.On("Commit", mock.Anything).Return(nil)
				m.events.On("PublishPostCreated", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil).Once()
			},
		},
		{
			name: "Success without files",
			submission: &model.Submission{
				Text:     strPtr("Just some plain text"),
				Username: strPtr("bob"),
			},
			mocks: func(m serviceMocks) {
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.postRepo)
				m.postRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
					return p.ImagePath == nil && p.UserAvatarPath == nil
				})).Return(&model.Post{Text: "Just some plain text", Username: "bob"}, nil)
				m.tx.On("Commit", mock.Anything).Return(nil)
				m.events.On("PublishPostCreated", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "Publish failure does not fail the post",
			submission: &model.Submission{
				Text:     strPtr("Just some plain text"),
				Username: strPtr("bob"),
			},
			mocks: func(m serviceMocks) {
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.postRepo)
				m.postRepo.On("Create", mock.Anything, mock.Anything).Return(&model.Post{Text: "Just some plain text", Username: "bob"}, nil)
				m.tx.On("Commit", mock.Anything).Return(nil)
				m.events.On("PublishPostCreated", mock.Anything, mock.Anything).Return(errors.New("nats: connection closed")).Once()
			},
		},
		{
			name: "Validation error touches nothing",
			submission: &model.Submission{
				Text:      strPtr("short"),
				Username:  strPtr("a"),
				ImageData: testutil.PNG(),
			},
			mocks:       func(m serviceMocks) {},
			wantErr:     true,
			wantErrType: custom_errors.ErrValidation,
		},
		{
			name: "Non-PNG image rejected before write",
			submission: &model.Submission{
				Text:      strPtr("Hello there, world"),
				Username:  strPtr("alice"),
				ImageData: testutil.JPEG(),
			},
			mocks:       func(m serviceMocks) {},
			wantErr:     true,
			wantErrType: custom_errors.ErrInvalidFileType,
		},
		{
			name:       "Avatar download failure removes image",
			submission: fullSubmission(),
			mocks: func(m serviceMocks) {
				m.assets.On("Save", mock.Anything, model.AssetRoleImage, mock.Anything).Return(imageAsset, nil)
				m.avatars.On("Fetch", mock.Anything, avatarURL).Return(nil, custom_errors.AvatarDownload("HTTP 404"))
				m.assets.On("Remove", mock.Anything, imageAsset).Return(nil).Once()
			},
			wantErr:     true,
			wantErrType: custom_errors.ErrAvatarDownload,
		},
		{
			name:       "Avatar write failure removes image",
			submission: fullSubmission(),
			mocks: func(m serviceMocks) {
				m.assets.On("Save", mock.Anything, model.AssetRoleImage, mock.Anything).Return(imageAsset, nil)
				m.avatars.On("Fetch", mock.Anything, avatarURL).Return(testutil.PNG(), nil)
				m.assets.On("Save", mock.Anything, model.AssetRoleAvatar, mock.Anything).Return(nil, custom_errors.IO(errors.New("disk full")))
				m.assets.On("Remove", mock.Anything, imageAsset).Return(nil).Once()
			},
			wantErr:     true,
			wantErrType: custom_errors.ErrIO,
		},
		{
			name:       "Begin failure removes both files",
			submission: fullSubmission(),
			mocks: func(m serviceMocks) {
				m.assets.On("Save", mock.Anything, model.AssetRoleImage, mock.Anything).Return(imageAsset, nil)
				m.avatars.On("Fetch", mock.Anything, avatarURL).Return(testutil.PNG(), nil)
				m.assets.On("Save", mock.Anything, model.AssetRoleAvatar, mock.Anything).Return(avatarAsset, nil)
				m.uow.On("Begin", mock.Anything).Return(nil, errors.New("connection refused"))
				m.assets.On("Remove", mock.Anything, imageAsset).Return(nil).Once()
				m.assets.On("Remove", mock.Anything, avatarAsset).Return(nil).Once()
			},
			wantErr:     true,
			wantErrType: custom_errors.ErrDatabase,
		},
		{
			name:       "Insert failure rolls back and removes files",
			submission: fullSubmission(),
			mocks: func(m serviceMocks) {
				m.assets.On("Save", mock.Anything, model.AssetRoleImage, mock.Anything).Return(imageAsset, nil)
				m.avatars.On("Fetch", mock.Anything, avatarURL).Return(testutil.PNG(), nil)
				m.assets.On("Save", mock.Anything, model.AssetRoleAvatar, mock.Anything).Return(avatarAsset, nil)
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.postRepo)
				m.postRepo.On("Create", mock.Anything, mock.Anything).Return(nil, custom_errors.Database(errors.New("insert failed")))
				m.tx.On("Rollback", mock.Anything).Return(nil).Once()
				m.assets.On("Remove", mock.Anything, imageAsset).Return(nil).Once()
				m.assets.On("Remove", mock.Anything, avatarAsset).Return(nil).Once()
			},
			wantErr:     true,
			wantErrType: custom_errors.ErrDatabase,
		},
		{
			name:       "Commit failure removes files",
			submission: fullSubmission(),
			mocks: func(m serviceMocks) {
				m.assets.On("Save", mock.Anything, model.AssetRoleImage, mock.Anything).Return(imageAsset, nil)
				m.avatars.On("Fetch", mock.Anything, avatarURL).Return(testutil.PNG(), nil)
				m.assets.On("Save", mock.Anything, model.AssetRoleAvatar, mock.Anything).Return(avatarAsset, nil)
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.postRepo)
				m.postRepo.On("Create", mock.Anything, mock.Anything).Return(&model.Post{}, nil)
				m.tx.On("Commit", mock.Anything).Return(errors.New("serialization failure"))
				m.tx.On("Rollback", mock.Anything).Return(nil).Once()
				m.assets.On("Remove", mock.Anything, imageAsset).Return(nil).Once()
				m.assets.On("Remove", mock.Anything, avatarAsset).Return(nil).Once()
			},
			wantErr:     true,
			wantErrType: custom_errors.ErrDatabase,
		},
		{
			name:       "Cleanup failure keeps original error",
			submission: fullSubmission(),
			mocks: func(m serviceMocks) {
				m.assets.On("Save", mock.Anything, model.AssetRoleImage, mock.Anything).Return(imageAsset, nil)
				m.avatars.On("Fetch", mock.Anything, avatarURL).Return(nil, custom_errors.AvatarDownload("HTTP 500"))
				m.assets.On("Remove", mock.Anything, imageAsset).Return(custom_errors.IO(errors.New("permission denied"))).Once()
			},
			wantErr:     true,
			wantErrType: custom_errors.ErrAvatarDownload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := serviceMocks{
				postRepo: post_repository_mock.NewRepository(t),
				uow:      postgres_mock.NewUnitOfWork(t),
				tx:       postgres_mock.NewTransaction(t),
				assets:   asset_store_mock.NewStore(t),
				avatars:  avatar_fetcher_mock.NewFetcher(t),
				events:   post_events_mock.NewPublisher(t),
			}
			tt.mocks(m)

			s := NewPostService(m.postRepo, m.uow, m.assets, imaging.NewPNGCodec(imaging.DefaultMaxPixels, log), m.avatars, m.events,
				log, metrics.NewPrometheusMetricsProvider())
			got, err := s.CreatePost(context.Background(), tt.submission)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				if tt.wantErrType != nil {
					assert.True(t, errors.Is(err, tt.wantErrType), "got %v", err)
				}
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestPostService_CreatePost_Atomicity(t *testing.T) {
	log := logger.New("test")
	provider := metrics.NewPrometheusMetricsProvider()

	setup := func(t *testing.T) (*PostService, afero.Fs, *memory.PostRepository, *memory.UnitOfWork, *avatar_fetcher_mock.Fetcher) {
		fs := afero.NewMemMapFs()
		store, err := filesystem.NewAssetStore(fs, "/uploads", log, provider)
		require.NoError(t, err)
		repo := memory.NewPostRepository(log)
		uow := memory.NewUnitOfWork(repo, log)
		avatars := avatar_fetcher_mock.NewFetcher(t)
		s := NewPostService(repo, uow, store, imaging.NewPNGCodec(imaging.DefaultMaxPixels, log), avatars, events_nats.NopPublisher{}, log, provider)
		return s, fs, repo, uow, avatars
	}

	countFiles := func(t *testing.T, fs afero.Fs) int {
		entries, err := afero.ReadDir(fs, "/uploads")
		require.NoError(t, err)
		return len(entries)
	}

	submission := func() *model.Submission {
		return &model.Submission{
			Text:          strPtr("Hello there, world"),
			Username:      strPtr("alice"),
			UserAvatarURL: strPtr(avatarURL),
			ImageData:     testutil.PNG(),
		}
	}

	t.Run("committed post references existing files", func(t *testing.T) {
		s, fs, repo, _, avatars := setup(t)
		avatars.On("Fetch", mock.Anything, avatarURL).Return(testutil.PNG(), nil)

		post, err := s.CreatePost(context.Background(), submission())
		require.NoError(t, err)
		require.NotNil(t, post.ImagePath)
		require.NotNil(t, post.UserAvatarPath)

		exists, err := afero.Exists(fs, "/uploads/"+*post.ImagePath)
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = afero.Exists(fs, "/uploads/"+*post.UserAvatarPath)
		require.NoError(t, err)
		assert.True(t, exists)

		posts, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, post.ID, posts[0].ID)
	})

	t.Run("insert failure leaves no files or rows", func(t *testing.T) {
		s, fs, repo, uow, avatars := setup(t)
		avatars.On("Fetch", mock.Anything, avatarURL).Return(testutil.PNG(), nil)
		uow.SimulateInsertError(errors.New("insert failed"))

		_, err := s.CreatePost(context.Background(), submission())
		require.Error(t, err)
		assert.True(t, errors.Is(err, custom_errors.ErrDatabase))

		assert.Zero(t, countFiles(t, fs))
		posts, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("commit failure leaves no files or rows", func(t *testing.T) {
		s, fs, repo, uow, avatars := setup(t)
		avatars.On("Fetch", mock.Anything, avatarURL).Return(testutil.PNG(), nil)
		uow.SimulateCommitError(errors.New("commit failed"))

		_, err := s.CreatePost(context.Background(), submission())
		require.Error(t, err)

		assert.Zero(t, countFiles(t, fs))
		posts, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("avatar failure removes uploaded image", func(t *testing.T) {
		s, fs, _, _, avatars := setup(t)
		avatars.On("Fetch", mock.Anything, avatarURL).Return(nil, custom_errors.AvatarDownload("Invalid avatar image type"))

		_, err := s.CreatePost(context.Background(), submission())
		require.Error(t, err)
		assert.True(t, errors.Is(err, custom_errors.ErrAvatarDownload))
		assert.Zero(t, countFiles(t, fs))
	})

	t.Run("cancelled request still cleans up", func(t *testing.T) {
		s, fs, _, _, avatars := setup(t)
		ctx, cancel := context.WithCancel(context.Background())
		avatars.On("Fetch", mock.Anything, avatarURL).Run(func(mock.Arguments) { cancel() }).
			Return(nil, custom_errors.AvatarDownload(context.Canceled.Error()))

		_, err := s.CreatePost(ctx, submission())
		require.Error(t, err)
		assert.Zero(t, countFiles(t, fs))
	})
}

func TestPostService_ListPosts(t *testing.T) {
	log := logger.New("test")

	tests := []struct {
		name        string
		mocks       func(postRepo *post_repository_mock.Repository)
		want        []*model.Post
		wantErrType error
	}{
		{
			name: "Success",
			mocks: func(postRepo *post_repository_mock.Repository) {
				postRepo.On("List", mock.Anything).Return([]*model.Post{{Text: "Hello there, world", Username: "alice"}}, nil)
			},
			want: []*model.Post{{Text: "Hello there, world", Username: "alice"}},
		},
		{
			name: "Repository error",
			mocks: func(postRepo *post_repository_mock.Repository) {
				postRepo.On("List", mock.Anything).Return(nil, errors.New("connection reset"))
			},
			wantErrType: custom_errors.ErrDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := post_repository_mock.NewRepository(t)
			tt.mocks(postRepo)

			s := NewPostService(postRepo, postgres_mock.NewUnitOfWork(t), asset_store_mock.NewStore(t),
				imaging.NewPNGCodec(imaging.DefaultMaxPixels, log), avatar_fetcher_mock.NewFetcher(t), post_events_mock.NewPublisher(t),
				log, metrics.NewPrometheusMetricsProvider())
			got, err := s.ListPosts(context.Background())

			if tt.wantErrType != nil {
				assert.True(t, errors.Is(err, tt.wantErrType))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
