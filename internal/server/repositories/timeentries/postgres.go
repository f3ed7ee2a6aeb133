package timeentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bmgraphics/fleetops/internal/common"
	"github.com/bmgraphics/fleetops/internal/dbx"
	"github.com/bmgraphics/fleetops/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ActiveEntry(ctx context.Context, userID string) (*models.TimeEntry, error) {
	query := `
		SELECT id, user_id, clock_in, clock_out, status, total_ms
		FROM time_entries
		WHERE user_id = $1 AND status <> 'clocked_out'
		ORDER BY clock_in DESC LIMIT 1
	`
	e := &models.TimeEntry{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&e.ID, &e.UserID, &e.ClockIn, &e.ClockOut, &e.Status, &e.TotalMS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error) {
	query := `
		INSERT INTO time_entries (id, user_id, status)
		VALUES ($1, $2, $3)
		RETURNING clock_in
	`
	err := r.db.QueryRowContext(ctx, query, e.ID, e.UserID, e.Status).Scan(&e.ClockIn)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, entryID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_entries SET status = $2 WHERE id = $1`, entryID, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SetClockOut(ctx context.Context, entryID string, at time.Time, totalMS int64) error {
	query := `
		UPDATE time_entries SET clock_out = $2, total_ms = $3, status = 'clocked_out'
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, entryID, at, totalMS)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateBreak(ctx context.Context, b *models.TimeBreak) (*models.TimeBreak, error) {
	query := `
		INSERT INTO time_breaks (id, time_entry_id, break_type)
		VALUES ($1, $2, $3)
		RETURNING break_start
	`
	err := r.db.QueryRowContext(ctx, query, b.ID, b.TimeEntryID, b.BreakType).Scan(&b.BreakStart)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) OpenBreak(ctx context.Context, entryID string) (*models.TimeBreak, error) {
	query := `
		SELECT id, time_entry_id, break_start, break_end, break_type
		FROM time_breaks
		WHERE time_entry_id = $1 AND break_end IS NULL
		ORDER BY break_start DESC LIMIT 1
	`
	b := &models.TimeBreak{}
	err := r.db.QueryRowContext(ctx, query, entryID).Scan(
		&b.ID, &b.TimeEntryID, &b.BreakStart, &b.BreakEnd, &b.BreakType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) CloseBreak(ctx context.Context, breakID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_breaks SET break_end = $2 WHERE id = $1 AND break_end IS NULL`, breakID, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.TimeEntry, error) {
	query := `
		SELECT id, user_id, clock_in, clock_out, status, total_ms
		FROM time_entries WHERE user_id = $1
		ORDER BY clock_in DESC LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.TimeEntry
	for rows.Next() {
		e := &models.TimeEntry{}
		err := rows.Scan(&e.ID, &e.UserID, &e.ClockIn, &e.ClockOut, &e.Status, &e.TotalMS)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range result {
		breaks, err := r.breaksForEntry(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Breaks = breaks
	}
	return result, nil
}

func (r *PostgresRepository) breaksForEntry(ctx context.Context, entryID string) ([]models.TimeBreak, error) {
	query := `
		SELECT id, time_entry_id, break_start, break_end, break_type
		FROM time_breaks WHERE time_entry_id = $1 ORDER BY break_start
	`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var breaks []models.TimeBreak
	for rows.Next() {
		var b models.TimeBreak
		err := rows.Scan(&b.ID, &b.TimeEntryID, &b.BreakStart, &b.BreakEnd, &b.BreakType)
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return breaks, nil
}
