package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtside/scheduler/internal/model"
	"github.com/courtside/scheduler/internal/repository/base"
)

type CoachRepository struct {
	*base.Repository
}

func NewCoachRepository(pool *pgxpool.Pool) *CoachRepository {
	return &CoachRepository{Repository: base.NewRepository(pool)}
}

// GetBySlug returns nil when no coach owns the slug. The caller decides
// whether that is an error; there is no default profile to fall back to.
func (r *CoachRepository) GetBySlug(ctx context.Context, slug string) (*model.CoachProfile, error) {
	query := `
		SELECT id, user_id, slug, display_name, public_note, created_at
		FROM coaches
		WHERE slug = $1
	`

	var coach model.CoachProfile
	err := r.QueryRow(ctx, query, slug).Scan(
		&coach.ID,
		&coach.UserID,
		&coach.Slug,
		&coach.DisplayName,
		&coach.PublicNote,
		&coach.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coach by slug: %w", err)
	}
	return &coach, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, id string) (*model.CoachProfile, error) {
	query := `
		SELECT id, user_id, slug, display_name, public_note, created_at
		FROM coaches
		WHERE id = $1
	`

	var coach model.CoachProfile
	err := r.QueryRow(ctx, query, id).Scan(
		&coach.ID,
		&coach.UserID,
		&coach.Slug,
		&coach.DisplayName,
		&coach.PublicNote,
		&coach.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coach by id: %w", err)
	}
	return &coach, nil
}
