package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

// dbtx: общее подмножество *sqlx.DB и *sqlx.Tx, с которым работают адаптеры.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Store реализует хранилище поверх PostgreSQL.
type Store struct {
	db    *sqlx.DB
	gigs  *GigRepositoryAdapter
	bids  *BidRepositoryAdapter
	users *UserRepositoryAdapter
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:    db,
		gigs:  NewGigRepositoryAdapter(db),
		bids:  NewBidRepositoryAdapter(db),
		users: NewUserRepositoryAdapter(db),
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Gigs() repository.GigRepository   { return s.gigs }
func (s *Store) Bids() repository.BidRepository   { return s.bids }
func (s *Store) Users() repository.UserRepository { return s.users }

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "база данных недоступна")
	}
	return nil
}

type txRepositories struct {
	gigs *GigRepositoryAdapter
	bids *BidRepositoryAdapter
}

func (r *txRepositories) Gigs() repository.GigTxRepository { return r.gigs }
func (r *txRepositories) Bids() repository.BidTxRepository { return r.bids }

// WithinTransaction выполняет fn в транзакции READ COMMITTED.
// Ошибка fn возвращается как есть, после отката. Паника откатывает транзакцию и пробрасывается дальше.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось начать транзакцию")
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}
	}()

	repos := &txRepositories{
		gigs: NewGigRepositoryAdapter(tx),
		bids: NewBidRepositoryAdapter(tx),
	}
	if err := fn(ctx, repos); err != nil {
		rollback(tx)
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось зафиксировать транзакцию")
	}
	return nil
}

func rollback(tx *sqlx.Tx) {
	// ErrTxDone означает, что драйвер уже откатил транзакцию по отмене контекста
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Log.WithError(err).Error("postgres: не удалось откатить транзакцию")
	}
}
