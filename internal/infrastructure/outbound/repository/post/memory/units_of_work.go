package memory

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"pinstack-blog-service/internal/custom_errors"
	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
	post_repository "pinstack-blog-service/internal/domain/ports/output/post"
	"pinstack-blog-service/internal/infrastructure/outbound/repository/postgres"
)

var ErrTxClosed = errors.New("tx is closed")

// UnitOfWork stages inserts per transaction and applies them to the shared
// repository on commit.
type UnitOfWork struct {
	repo *PostRepository
	log  ports.Logger

	mu        sync.Mutex
	commitErr error
	insertErr error
}

func NewUnitOfWork(repo *PostRepository, log ports.Logger) *UnitOfWork {
	return &UnitOfWork{repo: repo, log: log}
}

// SimulateCommitError makes every later commit fail with err.
func (u *UnitOfWork) SimulateCommitError(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.commitErr = err
}

// SimulateInsertError makes every later insert fail with err.
func (u *UnitOfWork) SimulateInsertError(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.insertErr = err
}

func (u *UnitOfWork) Begin(ctx context.Context) (postgres.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, custom_errors.Database(err)
	}
	return &transaction{uow: u}, nil
}

type transaction struct {
	uow     *UnitOfWork
	mu      sync.Mutex
	pending []*model.Post
	closed  bool
}

func (t *transaction) PostRepository() post_repository.Repository {
	return &stagedRepository{tx: t}
}

func (t *transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return custom_errors.Database(ErrTxClosed)
	}
	t.closed = true

	t.uow.mu.Lock()
	commitErr := t.uow.commitErr
	t.uow.mu.Unlock()
	if commitErr != nil {
		t.pending = nil
		return custom_errors.Database(commitErr)
	}
	if err := ctx.Err(); err != nil {
		t.pending = nil
		return custom_errors.Database(err)
	}

	t.uow.repo.insert(t.pending)
	t.uow.log.Debug("Committed memory transaction", slog.Int("inserted", len(t.pending)))
	t.pending = nil
	return nil
}

func (t *transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTxClosed
	}
	t.closed = true
	t.pending = nil
	return nil
}

type stagedRepository struct {
	tx *transaction
}

func (s *stagedRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	s.tx.uow.mu.Lock()
	insertErr := s.tx.uow.insertErr
	s.tx.uow.mu.Unlock()
	if insertErr != nil {
		return nil, custom_errors.Database(insertErr)
	}

	s.tx.mu.Lock()
	defer s.tx.mu.Unlock()
	if s.tx.closed {
		return nil, custom_errors.Database(ErrTxClosed)
	}
	newPost := newStoredPost(post)
	s.tx.pending = append(s.tx.pending, newPost)

	result := *newPost
	return &result, nil
}

func (s *stagedRepository) List(ctx context.Context) ([]*model.Post, error) {
	committed, err := s.tx.uow.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.tx.mu.Lock()
	defer s.tx.mu.Unlock()
	for _, post := range s.tx.pending {
		postCopy := *post
		committed = append(committed, &postCopy)
	}
	sortByPublishedDesc(committed)
	return committed, nil
}
