package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/courtside/scheduler/internal/model"
)

const sessionTTL = 30 * 24 * time.Hour

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	GetByToken(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	logger   *zap.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// SignIn verifies credentials and issues a session. When coach is given,
// the authenticated user must be the one owning that coach page; any
// other account is rejected without a session, so signing in on someone
// else's link can never succeed.
func (s *AuthService) SignIn(ctx context.Context, coach *model.CoachProfile, email, password string) (*model.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, model.ErrAuthFailed
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, model.ErrAuthFailed
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, model.ErrAuthFailed
	}

	if coach != nil && user.ID != coach.UserID {
		s.logger.Warn("Sign-in rejected: account does not own coach page",
			zap.String("coach_id", coach.ID),
			zap.String("user_id", user.ID),
		)
		return nil, model.ErrAuthFailed
	}

	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("User signed in", zap.String("user_id", user.ID))
	return session, nil
}

// CurrentSession resolves a bearer token to a live session. An unknown
// or expired token yields (nil, nil), not an error.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(time.Now()) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("Failed to drop expired session", zap.Error(err))
		}
		return nil, nil
	}
	return session, nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
