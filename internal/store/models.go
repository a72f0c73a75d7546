package store

// TimerMode distinguishes a fixed-duration countdown from an
// open-ended count-up.
type TimerMode string

const (
	ModePomodoro  TimerMode = "pomodoro"
	ModeStopwatch TimerMode = "stopwatch"
)

func (m TimerMode) Valid() bool {
	return m == ModePomodoro || m == ModeStopwatch
}

type Project struct {
	ID    string
	Name  string
	Color string
}

// Settings is the per-user singleton, created lazily with defaults
// on first read.
type Settings struct {
	TimerDuration int // minutes, 1..180
	DarkMode      bool
}

const (
	DefaultTimerDuration = 25
	MinTimerDuration     = 1
	MaxTimerDuration     = 180
)

// ActiveTimer is the single in-progress timer for a user. It persists
// timestamps rather than a countdown value so that any reader can
// recompute elapsed/remaining time from a fresh snapshot.
//
// StartTime is epoch milliseconds and never changes after creation.
// PausedAt is set only while paused. PausedDuration accumulates whole
// seconds spent paused and is adjusted only at resume time.
// InitialDuration (seconds) is set only for pomodoro mode and captures
// the duration setting at start.
type ActiveTimer struct {
	Mode            TimerMode
	IsActive        bool
	StartTime       int64
	PausedAt        *int64
	PausedDuration  int64
	InitialDuration *int64
	ProjectID       string
	ProjectName     string
	Notes           string
	Tags            string
}

// TimerPatch is a partial update to an ActiveTimer. Nil fields are
// left untouched; ClearPausedAt removes paused_at explicitly since a
// nil pointer cannot distinguish "unset" from "clear".
type TimerPatch struct {
	IsActive        *bool
	PausedAt        *int64
	ClearPausedAt   bool
	PausedDuration  *int64
	InitialDuration *int64
	Notes           *string
	Tags            *string
}

// Session is the immutable record of one completed or early-finished
// timer. ProjectName and Color are denormalized at creation so that
// deleting a project never rewrites history.
type Session struct {
	ID          string
	ProjectID   string
	ProjectName string
	Color       string
	StartTime   int64 // epoch ms
	EndTime     int64 // epoch ms
	Duration    int64 // seconds
	Notes       string
	Tags        string
}
