package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/auth"
)

// SessionJobs clears refresh-token rows past their expiry.
type SessionJobs struct {
	sessionRepo auth.SessionRepository
}

func NewSessionJobs(sessionRepo auth.SessionRepository) *SessionJobs {
	return &SessionJobs{sessionRepo: sessionRepo}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("delete_expired_sessions", 6*time.Hour, j.DeleteExpired)
}

func (j *SessionJobs) DeleteExpired(ctx context.Context) error {
	deleted, err := j.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Expired sessions deleted", "count", deleted)
	}
	return nil
}
