package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/courtside/scheduler/internal/repository"
)

const janitorInterval = time.Hour

// Janitor prunes expired sessions in the background.
type Janitor struct {
	sessions *repository.SessionRepository
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewJanitor(sessions *repository.SessionRepository, logger *zap.Logger) *Janitor {
	return &Janitor{
		sessions: sessions,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (j *Janitor) Start(ctx context.Context) {
	go j.run(ctx)
}

func (j *Janitor) Stop() {
	close(j.stopChan)
}

func (j *Janitor) run(ctx context.Context) {
	// First sweep right away, then hourly.
	j.sweep(ctx)

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep(ctx)
		case <-j.stopChan:
			j.logger.Info("Session janitor stopped")
			return
		case <-ctx.Done():
			return
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		j.logger.Error("Failed to prune sessions", zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("Pruned expired sessions", zap.Int64("removed", removed))
	}
}
