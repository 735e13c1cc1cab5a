package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expert-marketplace/internal/data/entity"
	"expert-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ExpertFilter narrows the public directory. Price bounds are strict.
type ExpertFilter struct {
	Categories []string
	MinPrice   *float64
	MaxPrice   *float64
}

type ExpertRepository interface {
	Create(ctx context.Context, expert *entity.Expert) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Expert, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Expert, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Expert, error)
	Update(ctx context.Context, expert *entity.Expert) error

	// Directory queries
	List(ctx context.Context, filter ExpertFilter) ([]*entity.ExpertWithUser, error)
	Categories(ctx context.Context) ([]string, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*entity.ExpertWithUser, error)

	// Derived counters
	IncrementJobsTaken(ctx context.Context, id uuid.UUID) error
	UpdateAverageRating(ctx context.Context, id uuid.UUID, average float64) error
}

type expertRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewExpertRepository(db database.Querier, log *zap.Logger) ExpertRepository {
	return &expertRepository{
		db:  db,
		log: log.With(zap.String("repository", "expert")),
	}
}

const expertColumns = `e.id, e.user_id, e.category, e.hourly_fee, e.bio, e.requirements, e.is_public, e.jobs_taken, e.average_rating`

func scanExpert(row pgx.Row, extra ...any) (*entity.Expert, error) {
	var expert entity.Expert
	dest := []any{
		&expert.ID,
		&expert.UserID,
		&expert.Category,
		&expert.HourlyFee,
		&expert.Bio,
		&expert.Requirements,
		&expert.IsPublic,
		&expert.JobsTaken,
		&expert.AverageRating,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &expert, nil
}

func scanExpertWithUser(row pgx.Row) (*entity.ExpertWithUser, error) {
	var view entity.ExpertWithUser
	expert, err := scanExpert(row, &view.FullName, &view.ProfilePictureURL, &view.UserBio)
	if err != nil {
		return nil, err
	}
	view.Expert = *expert
	return &view, nil
}

func (r *expertRepository) Create(ctx context.Context, expert *entity.Expert) error {
	query := `
		INSERT INTO experts (id, user_id, category, hourly_fee, bio, requirements, is_public, jobs_taken, average_rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		expert.ID,
		expert.UserID,
		expert.Category,
		expert.HourlyFee,
		expert.Bio,
		expert.Requirements,
		expert.IsPublic,
		expert.JobsTaken,
		expert.AverageRating,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create expert for user %s: %w", expert.UserID.String(), ErrUniqueViolation)
		}
		r.log.Error("Failed to create expert",
			zap.Error(err),
			zap.String("user_id", expert.UserID.String()),
		)
		return fmt.Errorf("create expert for user %s: %w", expert.UserID.String(), err)
	}

	return nil
}

func (r *expertRepository) findOne(ctx context.Context, query string, arg uuid.UUID, op string) (*entity.Expert, error) {
	expert, err := scanExpert(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op,
			zap.Error(err),
			zap.String("id", arg.String()),
		)
		return nil, fmt.Errorf("%s %s: %w", op, arg.String(), err)
	}
	return expert, nil
}

func (r *expertRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expert, error) {
	query := `SELECT ` + expertColumns + ` FROM experts e WHERE e.id = $1`
	return r.findOne(ctx, query, id, "find expert by ID")
}

// FindByIDForUpdate locks the expert row until the surrounding transaction ends.
func (r *expertRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Expert, error) {
	query := `SELECT ` + expertColumns + ` FROM experts e WHERE e.id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id, "lock expert")
}

func (r *expertRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Expert, error) {
	query := `SELECT ` + expertColumns + ` FROM experts e WHERE e.user_id = $1`
	return r.findOne(ctx, query, userID, "find expert by user ID")
}

func (r *expertRepository) Update(ctx context.Context, expert *entity.Expert) error {
	query := `
		UPDATE experts
		SET category = $2, hourly_fee = $3, bio = $4, requirements = $5, is_public = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		expert.ID,
		expert.Category,
		expert.HourlyFee,
		expert.Bio,
		expert.Requirements,
		expert.IsPublic,
	)
	if err != nil {
		r.log.Error("Failed to update expert",
			zap.Error(err),
			zap.String("expert_id", expert.ID.String()),
		)
		return fmt.Errorf("update expert %s: %w", expert.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("expert %s not found", expert.ID.String())
	}

	return nil
}

func (r *expertRepository) List(ctx context.Context, filter ExpertFilter) ([]*entity.ExpertWithUser, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT ` + expertColumns + `, u.full_name, u.profile_picture_url, u.bio
		FROM experts e
		JOIN users u ON u.id = e.user_id
		WHERE e.is_public = TRUE
	`)

	args := []any{}
	argCount := 1

	if len(filter.Categories) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.category = ANY($%d)", argCount))
		args = append(args, filter.Categories)
		argCount++
	}
	if filter.MinPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.hourly_fee > $%d", argCount))
		args = append(args, *filter.MinPrice)
		argCount++
	}
	if filter.MaxPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.hourly_fee < $%d", argCount))
		args = append(args, *filter.MaxPrice)
	}

	queryBuilder.WriteString(" ORDER BY e.average_rating DESC, u.full_name ASC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to list experts",
			zap.Error(err),
			zap.Strings("categories", filter.Categories),
		)
		return nil, fmt.Errorf("list experts: %w", err)
	}
	defer rows.Close()

	experts := []*entity.ExpertWithUser{}
	for rows.Next() {
		view, err := scanExpertWithUser(rows)
		if err != nil {
			r.log.Error("Failed to scan expert row", zap.Error(err))
			return nil, fmt.Errorf("scan expert: %w", err)
		}
		experts = append(experts, view)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate expert rows: %w", err)
	}

	r.log.Debug("Experts listed", zap.Int("count", len(experts)))

	return experts, nil
}

func (r *expertRepository) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM experts
		WHERE category <> ''
		ORDER BY category
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

func (r *expertRepository) FindDetail(ctx context.Context, id uuid.UUID) (*entity.ExpertWithUser, error) {
	query := `
		SELECT ` + expertColumns + `, u.full_name, u.profile_picture_url, u.bio
		FROM experts e
		JOIN users u ON u.id = e.user_id
		WHERE e.id = $1
	`

	view, err := scanExpertWithUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find expert detail",
			zap.Error(err),
			zap.String("expert_id", id.String()),
		)
		return nil, fmt.Errorf("find expert detail %s: %w", id.String(), err)
	}

	return view, nil
}

func (r *expertRepository) IncrementJobsTaken(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE experts SET jobs_taken = jobs_taken + 1 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment jobs taken",
			zap.Error(err),
			zap.String("expert_id", id.String()),
		)
		return fmt.Errorf("increment jobs taken for expert %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("expert %s not found", id.String())
	}

	return nil
}

func (r *expertRepository) UpdateAverageRating(ctx context.Context, id uuid.UUID, average float64) error {
	query := `UPDATE experts SET average_rating = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, average)
	if err != nil {
		r.log.Error("Failed to update average rating",
			zap.Error(err),
			zap.String("expert_id", id.String()),
			zap.Float64("average_rating", average),
		)
		return fmt.Errorf("update average rating for expert %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("expert %s not found", id.String())
	}

	return nil
}
