package userdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store reads user profiles and symptom logs. All methods are safe on a
// nil receiver and report "no data" in that case, so callers don't need
// to special-case a store that failed to initialize.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given database handle.
func NewStore(db *sqlx.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		db:     db,
		logger: logger.With("component", "userdata_store"),
	}
}

// GetProfile returns the profile for userID, or (nil, nil) when the
// identifier is unknown.
func (s *Store) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	var p Profile
	err := s.db.GetContext(ctx, &p, `SELECT * FROM user_profiles WHERE user_id = ? LIMIT 1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}
	return &p, nil
}

// GetLogs returns the symptom logs for userID, or (nil, nil) when the
// identifier is unknown.
func (s *Store) GetLogs(ctx context.Context, userID string) (*Logs, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	var l Logs
	err := s.db.GetContext(ctx, &l, `SELECT * FROM symptom_logs WHERE user_id = ? LIMIT 1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get logs for user %s: %w", userID, err)
	}
	return &l, nil
}

// RunMaintenance reclaims space and refreshes query planner statistics.
// Invoked by the scheduler during off-hours.
func (s *Store) RunMaintenance(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}

	s.logger.InfoContext(ctx, "running database maintenance")

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("pragma optimize failed: %w", err)
	}
	return nil
}
