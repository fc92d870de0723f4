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

// AppointmentRepository stores the coach's private bookings. Nothing in
// this table is ever served to a public viewer.
type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

func (r *AppointmentRepository) ListByCoach(ctx context.Context, coachID string) ([]schedule.AppointmentRow, error) {
	query := `
		SELECT id, start_time, end_time, client_name, location, notes
		FROM appointments_private
		WHERE coach_id = $1
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, coachID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []schedule.AppointmentRow
	for rows.Next() {
		var row schedule.AppointmentRow
		if err := rows.Scan(&row.ID, &row.StartTime, &row.EndTime, &row.ClientName, &row.Location, &row.Notes); err != nil {
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, coachID string, start, end time.Time, clientName, location, notes string) (string, error) {
	query := `
		INSERT INTO appointments_private (id, coach_id, start_time, end_time, client_name, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id string
	err := r.QueryRow(ctx, query, uuid.NewString(), coachID, start, end, clientName, location, notes).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create appointment: %w", err)
	}
	return id, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, id string, start, end time.Time, clientName, location, notes string) error {
	query := `
		UPDATE appointments_private
		SET start_time = $1, end_time = $2, client_name = $3, location = $4, notes = $5
		WHERE id = $6
	`

	affected, err := r.ExecAffected(ctx, query, start, end, clientName, location, notes, id)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM appointments_private WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) OwnerCoach(ctx context.Context, id string) (string, error) {
	var coachID string
	err := r.QueryRow(ctx, `SELECT coach_id FROM appointments_private WHERE id = $1`, id).Scan(&coachID)
	if err != nil {
		if base.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("appointment owner: %w", err)
	}
	return coachID, nil
}
