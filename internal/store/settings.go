package store

import (
	"database/sql"
	"fmt"
)

// GetSettings returns the user's settings, lazily inserting the
// defaults on first access.
func (s *Store) GetSettings(userID string) (*Settings, error) {
	set := &Settings{}
	var dark int
	err := s.db.QueryRow(
		`SELECT timer_duration, dark_mode FROM settings WHERE user_id = ?`, userID,
	).Scan(&set.TimerDuration, &dark)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec(
			`INSERT INTO settings (user_id, timer_duration, dark_mode) VALUES (?, ?, 0)`,
			userID, DefaultTimerDuration,
		); err != nil {
			return nil, fmt.Errorf("insert default settings: %w", err)
		}
		return &Settings{TimerDuration: DefaultTimerDuration}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	set.DarkMode = dark == 1
	return set, nil
}

func (s *Store) UpdateSettings(userID string, set *Settings) error {
	dark := 0
	if set.DarkMode {
		dark = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO settings (user_id, timer_duration, dark_mode) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET timer_duration = excluded.timer_duration, dark_mode = excluded.dark_mode`,
		userID, set.TimerDuration, dark,
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	s.notifySettings(userID)
	return nil
}
