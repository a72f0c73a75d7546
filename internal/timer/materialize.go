package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arshadumrethi/shadfocus/internal/store"
)

const fallbackColor = "#6C63FF"

// Materializer converts a live ActiveTimer into an immutable Session
// record. It only creates the session; the caller deletes the timer
// afterwards, so a crash between the two steps leaves the session
// recorded rather than losing in-progress work.
type Materializer struct {
	store  *store.Store
	userID string
	now    func() time.Time
}

func NewMaterializer(s *store.Store, userID string) *Materializer {
	return &Materializer{store: s, userID: userID, now: time.Now}
}

// Materialize writes a session for t. When explicitSeconds is nil the
// duration is computed from the timer per mode. Color is resolved from
// the live project; if the project was deleted mid-session the first
// remaining project's color is used, then a palette default.
func (m *Materializer) Materialize(t *store.ActiveTimer, explicitSeconds *int64) (*store.Session, error) {
	nowMs := m.now().UnixMilli()

	var dur int64
	if explicitSeconds != nil {
		dur = *explicitSeconds
	} else if t.Mode == store.ModeStopwatch {
		dur = ElapsedSeconds(nowMs, t)
	} else {
		initial := int64(store.DefaultTimerDuration) * 60
		if t.InitialDuration != nil {
			initial = *t.InitialDuration
		}
		dur = initial - RemainingSeconds(nowMs, t, initial)
	}

	sess := &store.Session{
		ID:          uuid.NewString(),
		ProjectID:   t.ProjectID,
		ProjectName: t.ProjectName,
		Color:       m.resolveColor(t.ProjectID),
		StartTime:   t.StartTime,
		EndTime:     nowMs,
		Duration:    dur,
		Notes:       t.Notes,
		Tags:        t.Tags,
	}
	if err := m.store.CreateSession(m.userID, sess); err != nil {
		return nil, fmt.Errorf("materialize session: %w", err)
	}
	return sess, nil
}

func (m *Materializer) resolveColor(projectID string) string {
	if p, err := m.store.GetProject(m.userID, projectID); err == nil && p != nil {
		return p.Color
	}
	if projects, err := m.store.ListProjects(m.userID); err == nil && len(projects) > 0 {
		return projects[0].Color
	}
	return fallbackColor
}
