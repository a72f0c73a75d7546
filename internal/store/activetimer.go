package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// SetActiveTimer writes the user's single active timer, replacing any
// existing one.
func (s *Store) SetActiveTimer(userID string, t *ActiveTimer) error {
	active := 0
	if t.IsActive {
		active = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO active_timers (user_id, mode, is_active, start_time, paused_at, paused_duration, initial_duration, project_id, project_name, notes, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   mode = excluded.mode, is_active = excluded.is_active,
		   start_time = excluded.start_time, paused_at = excluded.paused_at,
		   paused_duration = excluded.paused_duration, initial_duration = excluded.initial_duration,
		   project_id = excluded.project_id, project_name = excluded.project_name,
		   notes = excluded.notes, tags = excluded.tags`,
		userID, string(t.Mode), active, t.StartTime, t.PausedAt, t.PausedDuration,
		t.InitialDuration, t.ProjectID, t.ProjectName, t.Notes, t.Tags,
	)
	if err != nil {
		return fmt.Errorf("set active timer: %w", err)
	}
	s.notifyTimer(userID)
	return nil
}

// GetActiveTimer returns the user's active timer, or nil when absent.
func (s *Store) GetActiveTimer(userID string) (*ActiveTimer, error) {
	t := &ActiveTimer{}
	var mode string
	var active int
	var pausedAt, initialDuration sql.NullInt64

	err := s.db.QueryRow(
		`SELECT mode, is_active, start_time, paused_at, paused_duration, initial_duration, project_id, project_name, notes, tags
		 FROM active_timers WHERE user_id = ?`, userID,
	).Scan(&mode, &active, &t.StartTime, &pausedAt, &t.PausedDuration,
		&initialDuration, &t.ProjectID, &t.ProjectName, &t.Notes, &t.Tags)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active timer: %w", err)
	}
	t.Mode = TimerMode(mode)
	t.IsActive = active == 1
	if pausedAt.Valid {
		t.PausedAt = &pausedAt.Int64
	}
	if initialDuration.Valid {
		t.InitialDuration = &initialDuration.Int64
	}
	return t, nil
}

// PatchActiveTimer applies a partial update to the existing timer.
// Patching a missing timer is a no-op: absence is the terminal signal
// and a late patch must not resurrect it.
func (s *Store) PatchActiveTimer(userID string, patch TimerPatch) error {
	var sets []string
	var args []any

	if patch.IsActive != nil {
		v := 0
		if *patch.IsActive {
			v = 1
		}
		sets = append(sets, "is_active = ?")
		args = append(args, v)
	}
	if patch.ClearPausedAt {
		sets = append(sets, "paused_at = NULL")
	} else if patch.PausedAt != nil {
		sets = append(sets, "paused_at = ?")
		args = append(args, *patch.PausedAt)
	}
	if patch.PausedDuration != nil {
		sets = append(sets, "paused_duration = ?")
		args = append(args, *patch.PausedDuration)
	}
	if patch.InitialDuration != nil {
		sets = append(sets, "initial_duration = ?")
		args = append(args, *patch.InitialDuration)
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}
	if patch.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, *patch.Tags)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, userID)
	_, err := s.db.Exec(
		`UPDATE active_timers SET `+strings.Join(sets, ", ")+` WHERE user_id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("patch active timer: %w", err)
	}
	s.notifyTimer(userID)
	return nil
}

func (s *Store) DeleteActiveTimer(userID string) error {
	_, err := s.db.Exec(`DELETE FROM active_timers WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete active timer: %w", err)
	}
	s.notifyTimer(userID)
	return nil
}
