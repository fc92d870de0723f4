package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtside/scheduler/internal/model"
	"github.com/courtside/scheduler/internal/repository/base"
	"github.com/courtside/scheduler/internal/schedule"
)

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// ListByCoach returns a coach's availability rows ordered by start time.
// With onlyOpen set, closed rows are filtered out server-side; this is
// the public query path and must never widen.
func (r *AvailabilityRepository) ListByCoach(ctx context.Context, coachID string, onlyOpen bool) ([]schedule.AvailabilityRow, error) {
	query := `
		SELECT id, start_time, end_time, status
		FROM availability_slots
		WHERE coach_id = $1
		ORDER BY start_time
	`
	args := []any{coachID}
	if onlyOpen {
		query = `
			SELECT id, start_time, end_time, status
			FROM availability_slots
			WHERE coach_id = $1 AND status = $2
			ORDER BY start_time
		`
		args = append(args, model.AvailabilityOpen)
	}

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()

	var out []schedule.AvailabilityRow
	for rows.Next() {
		var row schedule.AvailabilityRow
		if err := rows.Scan(&row.ID, &row.StartTime, &row.EndTime, &row.Status); err != nil {
			return nil, fmt.Errorf("scan availability row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return out, nil
}

func (r *AvailabilityRepository) Create(ctx context.Context, coachID string, start, end time.Time, status model.AvailabilityStatus) (string, error) {
	query := `
		INSERT INTO availability_slots (id, coach_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id string
	err := r.QueryRow(ctx, query, uuid.NewString(), coachID, start, end, status).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create availability: %w", err)
	}
	return id, nil
}

func (r *AvailabilityRepository) Update(ctx context.Context, id string, start, end time.Time, status model.AvailabilityStatus) error {
	query := `
		UPDATE availability_slots
		SET start_time = $1, end_time = $2, status = $3
		WHERE id = $4
	`

	affected, err := r.ExecAffected(ctx, query, start, end, status, id)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// OwnerCoach returns the coach owning a row, or "" when the row does not
// exist. Ownership is checked in the service before any write.
func (r *AvailabilityRepository) OwnerCoach(ctx context.Context, id string) (string, error) {
	var coachID string
	err := r.QueryRow(ctx, `SELECT coach_id FROM availability_slots WHERE id = $1`, id).Scan(&coachID)
	if err != nil {
		if base.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("availability owner: %w", err)
	}
	return coachID, nil
}
