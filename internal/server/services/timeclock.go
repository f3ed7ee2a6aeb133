package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bmgraphics/fleetops/internal/common"
	"github.com/bmgraphics/fleetops/internal/server/models"
	"github.com/bmgraphics/fleetops/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TimeClockService runs the installer time clock. One active shift per user;
// breaks nest inside a shift and pause the worked total.
type TimeClockService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewTimeClockService(db *sql.DB, m repomanager.RepositoryManager) *TimeClockService {
	return &TimeClockService{db: db, repomanager: m, now: time.Now}
}

// ClockIn opens a shift. ErrAlreadyClockedIn when one is already open.
func (s *TimeClockService) ClockIn(ctx context.Context, userID string) (*models.TimeEntry, error) {
	repo := s.repomanager.TimeEntries(s.db)

	_, err := repo.ActiveEntry(ctx, userID)
	if err == nil {
		return nil, common.ErrAlreadyClockedIn
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	entry := &models.TimeEntry{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: models.ClockStatusIn,
	}
	entry, err = repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error creating time entry: %v", err)
	}
	return entry, nil
}

// ClockOut closes the shift, first ending any open break, and stores the
// worked total: wall time minus break time, in milliseconds.
func (s *TimeClockService) ClockOut(ctx context.Context, userID string) (*models.TimeEntry, error) {
	repo := s.repomanager.TimeEntries(s.db)

	entry, err := repo.ActiveEntry(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotClockedIn
		}
		return nil, err
	}

	at := s.now()

	if entry.Status == models.ClockStatusBreak {
		b, err := repo.OpenBreak(ctx, entry.ID)
		if err == nil {
			if err := repo.CloseBreak(ctx, b.ID, at); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
	}

	total, err := s.workedTotal(ctx, entry, at)
	if err != nil {
		return nil, err
	}

	if err := repo.SetClockOut(ctx, entry.ID, at, total.Milliseconds()); err != nil {
		return nil, err
	}

	entry.ClockOut = sql.NullTime{Time: at, Valid: true}
	entry.TotalMS = sql.NullInt64{Int64: total.Milliseconds(), Valid: true}
	entry.Status = models.ClockStatusOut
	return entry, nil
}

// StartBreak begins a break on the open shift.
func (s *TimeClockService) StartBreak(ctx context.Context, userID, breakType string) (*models.TimeBreak, error) {
	repo := s.repomanager.TimeEntries(s.db)

	entry, err := repo.ActiveEntry(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotClockedIn
		}
		return nil, err
	}
	if entry.Status == models.ClockStatusBreak {
		return nil, common.ErrBreakOpen
	}

	b := &models.TimeBreak{
		ID:          uuid.NewString(),
		TimeEntryID: entry.ID,
		BreakType:   breakType,
	}
	b, err = repo.CreateBreak(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("error creating break: %v", err)
	}
	if err := repo.UpdateStatus(ctx, entry.ID, models.ClockStatusBreak); err != nil {
		return nil, err
	}
	return b, nil
}

// EndBreak closes the open break and puts the shift back on the clock.
func (s *TimeClockService) EndBreak(ctx context.Context, userID string) error {
	repo := s.repomanager.TimeEntries(s.db)

	entry, err := repo.ActiveEntry(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrNotClockedIn
		}
		return err
	}
	if entry.Status != models.ClockStatusBreak {
		return common.ErrNoOpenBreak
	}

	b, err := repo.OpenBreak(ctx, entry.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrNoOpenBreak
		}
		return err
	}
	if err := repo.CloseBreak(ctx, b.ID, s.now()); err != nil {
		return err
	}
	return repo.UpdateStatus(ctx, entry.ID, models.ClockStatusIn)
}

// Status returns the user's open shift, or ErrNotClockedIn.
func (s *TimeClockService) Status(ctx context.Context, userID string) (*models.TimeEntry, error) {
	entry, err := s.repomanager.TimeEntries(s.db).ActiveEntry(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotClockedIn
		}
		return nil, err
	}
	return entry, nil
}

// History returns the user's recent shifts with breaks.
func (s *TimeClockService) History(ctx context.Context, userID string, limit int) ([]*models.TimeEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repomanager.TimeEntries(s.db).ListByUser(ctx, userID, limit)
}

func (s *TimeClockService) workedTotal(ctx context.Context, entry *models.TimeEntry, at time.Time) (time.Duration, error) {
	entries, err := s.repomanager.TimeEntries(s.db).ListByUser(ctx, entry.UserID, 1)
	if err != nil {
		return 0, err
	}

	total := at.Sub(entry.ClockIn)
	if len(entries) == 0 || entries[0].ID != entry.ID {
		return total, nil
	}
	for _, b := range entries[0].Breaks {
		end := at
		if b.BreakEnd.Valid {
			end = b.BreakEnd.Time
		}
		total -= end.Sub(b.BreakStart)
	}
	if total < 0 {
		total = 0
	}
	return total, nil
}
