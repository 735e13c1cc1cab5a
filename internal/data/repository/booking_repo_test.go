package repository

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"expert-marketplace/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// recordingQuerier keeps the last statement and its arguments. Reads find
// no rows and writes report tag.
type recordingQuerier struct {
	sql  string
	args []any
	tag  string
}

type emptyRow struct{}

func (emptyRow) Scan(...any) error { return pgx.ErrNoRows }

func (q *recordingQuerier) record(sql string, args []any) {
	q.sql = strings.Join(strings.Fields(sql), " ")
	q.args = args
}

func (q *recordingQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.record(sql, args)
	return nil, errors.New("query not supported")
}

func (q *recordingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.record(sql, args)
	return emptyRow{}
}

func (q *recordingQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.record(sql, args)
	return pgconn.NewCommandTag(q.tag), nil
}

func TestRowLockingReads(t *testing.T) {
	ctx := context.Background()
	q := &recordingQuerier{}
	repo := NewRepository(q, zap.NewNop())

	tests := []struct {
		name string
		call func() error
	}{
		{name: "booking", call: func() error {
			_, err := repo.Booking.FindByIDForUpdate(ctx, uuid.New())
			return err
		}},
		{name: "expert", call: func() error {
			_, err := repo.Expert.FindByIDForUpdate(ctx, uuid.New())
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("missing row should not be an error: %v", err)
			}
			if !strings.HasSuffix(q.sql, "FOR UPDATE") {
				t.Errorf("query does not lock the row: %s", q.sql)
			}
		})
	}
}

func TestSetReviewWritesOnce(t *testing.T) {
	ctx := context.Background()
	q := &recordingQuerier{tag: "UPDATE 1"}
	repo := NewBookingRepository(q, zap.NewNop())

	if err := repo.SetReview(ctx, uuid.New(), 8, "tidy"); err != nil {
		t.Fatalf("SetReview: %v", err)
	}
	if !strings.Contains(q.sql, "WHERE id = $1 AND rating IS NULL") {
		t.Errorf("update can overwrite an existing rating: %s", q.sql)
	}

	q.tag = "UPDATE 0"
	if err := repo.SetReview(ctx, uuid.New(), 8, "tidy"); err == nil {
		t.Error("SetReview on a reviewed booking should fail")
	}
}

func TestFindActiveUsesActiveStatuses(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewBookingRepository(q, zap.NewNop())

	if _, err := repo.FindActive(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if !strings.Contains(q.sql, "b.status = ANY($3)") {
		t.Errorf("query = %s", q.sql)
	}
	got, ok := q.args[2].([]string)
	if !ok || !slices.Equal(got, []string{"Pending", "Accepted"}) {
		t.Errorf("statuses = %v", q.args[2])
	}
}

func TestStatusWritesUseCodec(t *testing.T) {
	q := &recordingQuerier{tag: "UPDATE 1"}
	repo := NewBookingRepository(q, zap.NewNop())

	if err := repo.UpdateStatus(context.Background(), uuid.New(), entity.BookingStatusFinished); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	status, ok := q.args[1].(entity.BookingStatus)
	if !ok || status != entity.BookingStatusFinished {
		t.Fatalf("status arg = %#v", q.args[1])
	}
	if v, err := status.Value(); err != nil || v != "Finished" {
		t.Errorf("Value() = %v, %v", v, err)
	}

	q.tag = "UPDATE 0"
	if err := repo.UpdateStatus(context.Background(), uuid.New(), entity.BookingStatusFinished); err == nil {
		t.Error("UpdateStatus on a missing booking should fail")
	}
}
