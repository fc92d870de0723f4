package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/courtside/scheduler/internal/model"
)

type fakeUserStore struct {
	users map[string]*model.User
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return f.users[email], nil
}

type fakeSessionStore struct {
	sessions map[string]*model.Session
	deleted  []string
}

func (f *fakeSessionStore) Create(_ context.Context, session *model.Session) error {
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessionStore) GetByToken(_ context.Context, token string) (*model.Session, error) {
	return f.sessions[token], nil
}

func (f *fakeSessionStore) Delete(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	delete(f.sessions, token)
	return nil
}

func newTestAuth(t *testing.T) (*AuthService, *fakeUserStore, *fakeSessionStore) {
	t.Helper()
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users := &fakeUserStore{users: map[string]*model.User{
		"coach@example.com": {ID: "user-1", Email: "coach@example.com", PasswordHash: hash},
	}}
	sessions := &fakeSessionStore{sessions: map[string]*model.Session{}}
	return NewAuthService(users, sessions, zap.NewNop()), users, sessions
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := VerifyPassword("secret", hash)
	if err != nil || !ok {
		t.Errorf("correct password rejected: ok=%v err=%v", ok, err)
	}
	ok, err = VerifyPassword("wrong", hash)
	if err != nil || ok {
		t.Errorf("wrong password accepted: ok=%v err=%v", ok, err)
	}
}

func TestSignIn(t *testing.T) {
	svc, _, sessions := newTestAuth(t)

	session, err := svc.SignIn(context.Background(), nil, "coach@example.com", "correct horse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if session.Token == "" || session.UserID != "user-1" {
		t.Errorf("bad session: %+v", session)
	}
	if session.ExpiresAt.Before(time.Now()) {
		t.Error("session already expired")
	}
	if _, stored := sessions.sessions[session.Token]; !stored {
		t.Error("session not persisted")
	}
}

func TestSignIn_NormalizesEmail(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	if _, err := svc.SignIn(context.Background(), nil, "  Coach@Example.COM ", "correct horse"); err != nil {
		t.Fatalf("mixed-case email rejected: %v", err)
	}
}

func TestSignIn_Failures(t *testing.T) {
	svc, _, sessions := newTestAuth(t)

	tests := []struct {
		name            string
		email, password string
	}{
		{"unknown user", "nobody@example.com", "correct horse"},
		{"wrong password", "coach@example.com", "nope"},
		{"empty email", "", "correct horse"},
		{"empty password", "coach@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignIn(context.Background(), nil, tt.email, tt.password)
			if !errors.Is(err, model.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})
	}
	if len(sessions.sessions) != 0 {
		t.Error("failed sign-in left a session behind")
	}
}

func TestSignIn_CoachBinding(t *testing.T) {
	svc, _, sessions := newTestAuth(t)

	theirs := &model.CoachProfile{ID: "coach-2", UserID: "user-2", Slug: "jones"}
	if _, err := svc.SignIn(context.Background(), theirs, "coach@example.com", "correct horse"); !errors.Is(err, model.ErrAuthFailed) {
		t.Fatalf("sign-in on another coach's page: got %v, want ErrAuthFailed", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatal("rejected sign-in still created a session")
	}

	mine := &model.CoachProfile{ID: "coach-1", UserID: "user-1", Slug: "smith"}
	if _, err := svc.SignIn(context.Background(), mine, "coach@example.com", "correct horse"); err != nil {
		t.Fatalf("sign-in on own page failed: %v", err)
	}
}

func TestCurrentSession(t *testing.T) {
	svc, _, sessions := newTestAuth(t)

	live := &model.Session{Token: "live", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	stale := &model.Session{Token: "stale", UserID: "user-1", ExpiresAt: time.Now().Add(-time.Hour)}
	sessions.sessions[live.Token] = live
	sessions.sessions[stale.Token] = stale

	got, err := svc.CurrentSession(context.Background(), "live")
	if err != nil || got == nil || got.UserID != "user-1" {
		t.Errorf("live token: got %+v, err %v", got, err)
	}

	got, err = svc.CurrentSession(context.Background(), "stale")
	if err != nil || got != nil {
		t.Errorf("expired token should resolve to nil, got %+v, err %v", got, err)
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != "stale" {
		t.Errorf("expired session not dropped: %v", sessions.deleted)
	}

	got, err = svc.CurrentSession(context.Background(), "")
	if err != nil || got != nil {
		t.Errorf("empty token should resolve to nil, got %+v, err %v", got, err)
	}

	got, err = svc.CurrentSession(context.Background(), "unknown")
	if err != nil || got != nil {
		t.Errorf("unknown token should resolve to nil, got %+v, err %v", got, err)
	}
}

func TestSignOut(t *testing.T) {
	svc, _, sessions := newTestAuth(t)
	sessions.sessions["tok"] = &model.Session{Token: "tok", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}

	if err := svc.SignOut(context.Background(), "tok"); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, still := sessions.sessions["tok"]; still {
		t.Error("session survived sign-out")
	}

	if err := svc.SignOut(context.Background(), ""); err != nil {
		t.Errorf("empty token sign-out should be a no-op, got %v", err)
	}
}
