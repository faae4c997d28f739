package post_repository_postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pinstack-blog-service/internal/custom_errors"
	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
	"pinstack-blog-service/internal/infrastructure/outbound/repository/postgres/db"
)

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

// Create inserts the post with a fresh id. published_at is assigned by the
// database.
func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	id := uuid.New()
	p.log.Debug("Creating new post", slog.String("id", id.String()), slog.String("username", post.Username))

	args := pgx.NamedArgs{
		"id":               id,
		"text":             post.Text,
		"username":         post.Username,
		"image_path":       post.ImagePath,
		"user_avatar_path": post.UserAvatarPath,
	}

	query := `
		INSERT INTO blog_posts (id, text, username, image_path, user_avatar_path)
		VALUES (@id, @text, @username, @image_path, @user_avatar_path)
		RETURNING id, text, username, image_path, user_avatar_path, published_at`

	var createdPost model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&createdPost.ID,
		&createdPost.Text,
		&createdPost.Username,
		&createdPost.ImagePath,
		&createdPost.UserAvatarPath,
		&createdPost.PublishedAt,
	)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_create", false)
		p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.Database(err)
	}

	p.metrics.IncrementDatabaseQueries("post_create", true)
	p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
	p.log.Debug("Successfully created post", slog.String("id", createdPost.ID.String()))
	return &createdPost, nil
}

func (p *PostRepository) List(ctx context.Context) ([]*model.Post, error) {
	start := time.Now()
	p.log.Debug("Listing posts")

	query := `SELECT id, text, username, image_path, user_avatar_path, published_at
				FROM blog_posts ORDER BY published_at DESC`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, custom_errors.Database(err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		var post model.Post
		err := rows.Scan(
			&post.ID,
			&post.Text,
			&post.Username,
			&post.ImagePath,
			&post.UserAvatarPath,
			&post.PublishedAt,
		)
		if err != nil {
			p.metrics.IncrementDatabaseQueries("post_list", false)
			p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, custom_errors.Database(err)
		}
		posts = append(posts, &post)
	}

	if err = rows.Err(); err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, custom_errors.Database(err)
	}

	p.metrics.IncrementDatabaseQueries("post_list", true)
	p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
	p.log.Debug("Successfully listed posts", slog.Int("count", len(posts)))
	return posts, nil
}
