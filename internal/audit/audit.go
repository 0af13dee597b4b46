package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"admin-service/internal/domain/activity"
	"admin-service/internal/repository"
)

// Recorder writes activity-log entries for mutating operations. Recording is
// best effort: a failed insert is logged and never fails the request that
// triggered it.
type Recorder struct {
	repo repository.ActivityRepository
}

const recordTimeout = 500 * time.Millisecond

func NewRecorder(repo repository.ActivityRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record persists one entry, detached from the request context so a client
// disconnect cannot drop the log line.
func (r *Recorder) Record(c echo.Context, userID uuid.UUID, action activity.Action, entity activity.Entity, entityID *uuid.UUID, details string) {
	entry := &activity.Entry{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.repo.Insert(ctx, entry); err != nil {
		c.Logger().Warnf("failed to record activity %s/%s for user %s: %v", action, entity, userID, err)
	}
}
