package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pinstack-blog-service/internal/custom_errors"
	ports "pinstack-blog-service/internal/domain/ports/output"
	post_repository "pinstack-blog-service/internal/domain/ports/output/post"
	post_repository_postgres "pinstack-blog-service/internal/infrastructure/outbound/repository/post/postgres"
)

//go:generate mockery --name UnitOfWork --dir . --output ../../../../../mocks/postgres --outpkg mocks --filename UnitsOfWork.go
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

//go:generate mockery --name Transaction --dir . --output ../../../../../mocks/postgres --outpkg mocks --filename Transaction.go
type Transaction interface {
	PostRepository() post_repository.Repository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type PostgresUnitOfWork struct {
	pool    *pgxpool.Pool
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewPostgresUOW(pool *pgxpool.Pool, log ports.Logger, metrics ports.MetricsProvider) UnitOfWork {
	return &PostgresUnitOfWork{pool: pool, log: log, metrics: metrics}
}

// Begin borrows one pooled connection for the lifetime of the transaction.
func (uow *PostgresUnitOfWork) Begin(ctx context.Context) (Transaction, error) {
	start := time.Now()
	tx, err := uow.pool.Begin(ctx)
	uow.metrics.RecordDatabaseQueryDuration("tx_begin", time.Since(start))
	if err != nil {
		uow.metrics.IncrementDatabaseQueries("tx_begin", false)
		return nil, custom_errors.Database(err)
	}
	uow.metrics.IncrementDatabaseQueries("tx_begin", true)
	return &PostgresTransaction{tx: tx, log: uow.log, metrics: uow.metrics}, nil
}

type PostgresTransaction struct {
	tx      pgx.Tx
	log     ports.Logger
	metrics ports.MetricsProvider
}

func (t *PostgresTransaction) Commit(ctx context.Context) error {
	start := time.Now()
	err := t.tx.Commit(ctx)
	t.metrics.RecordDatabaseQueryDuration("tx_commit", time.Since(start))
	t.metrics.IncrementDatabaseQueries("tx_commit", err == nil)
	if err != nil {
		return custom_errors.Database(err)
	}
	return nil
}

func (t *PostgresTransaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *PostgresTransaction) PostRepository() post_repository.Repository {
	return post_repository_postgres.NewPostRepository(t.tx, t.log, t.metrics)
}
