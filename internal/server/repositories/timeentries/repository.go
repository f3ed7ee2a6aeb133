// Package timeentries stores the installer time clock: shifts and the breaks
// taken within them.
package timeentries

import (
	"context"
	"time"

	"github.com/bmgraphics/fleetops/internal/server/models"
)

type Repository interface {
	// ActiveEntry returns the user's shift that is not clocked out yet.
	// common.ErrorNotFound when the user is off the clock.
	ActiveEntry(ctx context.Context, userID string) (*models.TimeEntry, error)

	Create(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error)
	UpdateStatus(ctx context.Context, entryID, status string) error

	// SetClockOut closes the shift, stamping clock_out and the worked
	// total in milliseconds.
	SetClockOut(ctx context.Context, entryID string, at time.Time, totalMS int64) error

	CreateBreak(ctx context.Context, b *models.TimeBreak) (*models.TimeBreak, error)

	// OpenBreak returns the entry's break without an end time, or
	// common.ErrorNotFound.
	OpenBreak(ctx context.Context, entryID string) (*models.TimeBreak, error)
	CloseBreak(ctx context.Context, breakID string, at time.Time) error

	// ListByUser returns the user's most recent shifts with their breaks,
	// newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.TimeEntry, error)
}
