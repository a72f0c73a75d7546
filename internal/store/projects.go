package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrLastProject is returned by DeleteProject when the project is the
// user's only one. A user must always keep at least one project.
var ErrLastProject = errors.New("cannot delete the last project")

func (s *Store) AddProject(userID, name, color string) (*Project, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO projects (id, user_id, name, color) VALUES (?, ?, ?, ?)`,
		id, userID, name, color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	s.notifyProjects(userID)
	return s.GetProject(userID, id)
}

func (s *Store) GetProject(userID, id string) (*Project, error) {
	p := &Project{}
	err := s.db.QueryRow(
		`SELECT id, name, color FROM projects WHERE user_id = ? AND id = ?`, userID, id,
	).Scan(&p.ID, &p.Name, &p.Color)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) ListProjects(userID string) ([]Project, error) {
	rows, err := s.db.Query(
		`SELECT id, name, color FROM projects WHERE user_id = ? ORDER BY name`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) UpdateProject(userID, id, name, color string) error {
	_, err := s.db.Exec(
		`UPDATE projects SET name = ?, color = ? WHERE user_id = ? AND id = ?`,
		name, color, userID, id,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	s.notifyProjects(userID)
	return nil
}

// DeleteProject removes a project. Sessions keep their denormalized
// project name and color; nothing cascades.
func (s *Store) DeleteProject(userID, id string) error {
	var count int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM projects WHERE user_id = ?`, userID,
	).Scan(&count); err != nil {
		return fmt.Errorf("count projects: %w", err)
	}
	if count <= 1 {
		return ErrLastProject
	}

	_, err := s.db.Exec(`DELETE FROM projects WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.notifyProjects(userID)
	return nil
}
