package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/courtside/scheduler/internal/model"
)

type CoachStore interface {
	GetBySlug(ctx context.Context, slug string) (*model.CoachProfile, error)
}

type CoachService struct {
	coaches CoachStore
	logger  *zap.Logger
}

func NewCoachService(coaches CoachStore, logger *zap.Logger) *CoachService {
	return &CoachService{coaches: coaches, logger: logger}
}

// ResolveBySlug maps a URL slug to a coach profile. Unknown slugs fail
// closed with ErrNotFound; there is no default profile.
func (s *CoachService) ResolveBySlug(ctx context.Context, slug string) (*model.CoachProfile, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, model.ErrNotFound
	}

	coach, err := s.coaches.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("resolve coach: %w", err)
	}
	if coach == nil {
		return nil, fmt.Errorf("coach %q: %w", slug, model.ErrNotFound)
	}
	return coach, nil
}
