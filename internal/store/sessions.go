package store

import (
	"database/sql"
	"fmt"
)

func (s *Store) CreateSession(userID string, sess *Session) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, user_id, project_id, project_name, color, start_time, end_time, duration, notes, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, userID, sess.ProjectID, sess.ProjectName, sess.Color,
		sess.StartTime, sess.EndTime, sess.Duration, sess.Notes, sess.Tags,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	s.notifySessions(userID)
	return nil
}

func (s *Store) GetSession(userID, id string) (*Session, error) {
	sess := &Session{}
	err := s.db.QueryRow(
		`SELECT id, project_id, project_name, color, start_time, end_time, duration, notes, tags
		 FROM sessions WHERE user_id = ? AND id = ?`, userID, id,
	).Scan(&sess.ID, &sess.ProjectID, &sess.ProjectName, &sess.Color,
		&sess.StartTime, &sess.EndTime, &sess.Duration, &sess.Notes, &sess.Tags)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}

// ListSessions returns the user's history, most recently ended first.
func (s *Store) ListSessions(userID string) ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, project_name, color, start_time, end_time, duration, notes, tags
		 FROM sessions WHERE user_id = ? ORDER BY end_time DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.ProjectID, &sess.ProjectName, &sess.Color,
			&sess.StartTime, &sess.EndTime, &sess.Duration, &sess.Notes, &sess.Tags); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// UpdateSession overwrites an existing session. Sessions are immutable
// except through an explicit user edit, which lands here.
func (s *Store) UpdateSession(userID string, sess *Session) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET project_id = ?, project_name = ?, color = ?,
		 start_time = ?, end_time = ?, duration = ?, notes = ?, tags = ?
		 WHERE user_id = ? AND id = ?`,
		sess.ProjectID, sess.ProjectName, sess.Color,
		sess.StartTime, sess.EndTime, sess.Duration, sess.Notes, sess.Tags,
		userID, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	s.notifySessions(userID)
	return nil
}

func (s *Store) DeleteSession(userID, id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.notifySessions(userID)
	return nil
}

// SumDurations sums the duration of sessions that ended between fromMs
// and toMs (epoch milliseconds).
func (s *Store) SumDurations(userID string, fromMs, toMs int64) (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(duration), 0) FROM sessions
		 WHERE user_id = ? AND end_time >= ? AND end_time < ?`,
		userID, fromMs, toMs,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum durations: %w", err)
	}
	return total.Int64, nil
}
