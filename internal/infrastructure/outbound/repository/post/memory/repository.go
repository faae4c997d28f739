package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
)

type PostRepository struct {
	log   ports.Logger
	mu    sync.RWMutex
	posts map[uuid.UUID]*model.Post
}

func NewPostRepository(log ports.Logger) *PostRepository {
	return &PostRepository{
		log:   log,
		posts: make(map[uuid.UUID]*model.Post),
	}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	newPost := newStoredPost(post)
	p.log.Debug("Creating new post (memory impl)", slog.String("id", newPost.ID.String()), slog.String("username", post.Username))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts[newPost.ID] = newPost

	result := *newPost
	return &result, nil
}

func (p *PostRepository) List(ctx context.Context) ([]*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*model.Post, 0, len(p.posts))
	for _, post := range p.posts {
		postCopy := *post
		result = append(result, &postCopy)
	}
	sortByPublishedDesc(result)
	return result, nil
}

func (p *PostRepository) insert(posts []*model.Post) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, post := range posts {
		p.posts[post.ID] = post
	}
}

func newStoredPost(post *model.Post) *model.Post {
	return &model.Post{
		ID:             uuid.New(),
		Text:           post.Text,
		Username:       post.Username,
		ImagePath:      post.ImagePath,
		UserAvatarPath: post.UserAvatarPath,
		PublishedAt:    pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
}

func sortByPublishedDesc(posts []*model.Post) {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].PublishedAt.Time.After(posts[j].PublishedAt.Time)
	})
}
