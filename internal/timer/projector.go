package timer

import (
	"sync"
	"time"

	"github.com/arshadumrethi/shadfocus/internal/store"
)

// Display is what the UI renders. It is recomputed from the persisted
// timer on every tick and is never a source of truth itself.
type Display struct {
	Present bool
	Mode    store.TimerMode
	Running bool
	Paused  bool
	// Seconds is remaining time for pomodoro, elapsed time for
	// stopwatch.
	Seconds int64
	// DefaultSeconds is the full configured duration, used for the
	// idle pomodoro readout.
	DefaultSeconds int64
	ProjectName    string
}

// Projector watches the user's active timer and republishes a Display
// snapshot once per second while one is present. It holds no
// authoritative state and can be restarted from a fresh snapshot at
// any time; on a pomodoro reaching zero it invokes autoComplete
// (idempotence lives in the machine, not here).
type Projector struct {
	store        *store.Store
	userID       string
	now          func() time.Time
	interval     time.Duration
	publish      func(Display)
	autoComplete func()

	mu       sync.Mutex
	timer    *store.ActiveTimer
	settings *store.Settings
	stop     chan struct{}

	unsubTimer    func()
	unsubSettings func()
}

func NewProjector(s *store.Store, userID string, publish func(Display), autoComplete func()) *Projector {
	return &Projector{
		store:        s,
		userID:       userID,
		now:          time.Now,
		interval:     time.Second,
		publish:      publish,
		autoComplete: autoComplete,
	}
}

// Run subscribes to the timer and settings feeds. The initial
// snapshots are delivered synchronously before Run returns.
func (p *Projector) Run() {
	p.unsubSettings = p.store.SubscribeSettings(p.userID, p.onSettings)
	p.unsubTimer = p.store.SubscribeActiveTimer(p.userID, p.onTimer)
}

// Close releases the subscriptions and the tick loop. Safe to call on
// any exit path, more than once.
func (p *Projector) Close() {
	if p.unsubTimer != nil {
		p.unsubTimer()
	}
	if p.unsubSettings != nil {
		p.unsubSettings()
	}
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
}

func (p *Projector) onSettings(set *store.Settings) {
	p.mu.Lock()
	p.settings = set
	d := p.displayLocked()
	p.mu.Unlock()
	p.publish(d)
}

func (p *Projector) onTimer(t *store.ActiveTimer) {
	p.mu.Lock()
	p.timer = t
	if Valid(t) {
		if p.stop == nil {
			stop := make(chan struct{})
			p.stop = stop
			go p.loop(stop)
		}
	} else {
		p.stopLocked()
	}
	d := p.displayLocked()
	p.mu.Unlock()
	p.publish(d)
}

func (p *Projector) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

func (p *Projector) loop(stop chan struct{}) {
	tick := time.NewTicker(p.interval)
	defer tick.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			p.tick()
		}
	}
}

func (p *Projector) tick() {
	p.mu.Lock()
	d := p.displayLocked()
	complete := d.Present && d.Mode == store.ModePomodoro && d.Running && d.Seconds == 0
	p.mu.Unlock()

	p.publish(d)
	if complete && p.autoComplete != nil {
		p.autoComplete()
	}
}

func (p *Projector) displayLocked() Display {
	d := Display{DefaultSeconds: int64(store.DefaultTimerDuration) * 60}
	if p.settings != nil {
		d.DefaultSeconds = int64(p.settings.TimerDuration) * 60
	}

	t := p.timer
	if !Valid(t) {
		// Absent or unusable timestamp data: fall back to the idle
		// defaults rather than surfacing an error.
		return d
	}

	nowMs := p.now().UnixMilli()
	d.Present = true
	d.Mode = t.Mode
	d.Running = t.IsActive
	d.Paused = !t.IsActive
	d.ProjectName = t.ProjectName
	if t.Mode == store.ModePomodoro {
		d.Seconds = RemainingSeconds(nowMs, t, d.DefaultSeconds)
	} else {
		d.Seconds = ElapsedSeconds(nowMs, t)
	}
	return d
}
