package repository

import (
	"context"
	"errors"
	"fmt"

	"expert-marketplace/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrUniqueViolation is wrapped by writes rejected by a unique constraint.
var ErrUniqueViolation = errors.New("unique constraint violated")

type Repository struct {
	User    UserRepository
	Expert  ExpertRepository
	Booking BookingRepository
}

// NewRepository binds every repository to q, which is either the pool or
// an open transaction.
func NewRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(q, log),
		Expert:  NewExpertRepository(q, log),
		Booking: NewBookingRepository(q, log),
	}
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

type pgTransactor struct {
	db   database.PgxIface
	base *zap.Logger
	log  *zap.Logger
}

func NewTransactor(db database.PgxIface, log *zap.Logger) Transactor {
	return &pgTransactor{
		db:   db,
		base: log,
		log:  log.With(zap.String("repository", "tx")),
	}
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(tx *Repository) error) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				t.log.Warn("Failed to roll back transaction", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(NewRepository(tx, t.base)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
