package store

import (
	"log"
	"sync"
)

// The gateway is push-based: subscribers register a callback and get
// the current snapshot immediately, then a fresh read after every
// successful write to that entity for that user. Dispatch happens
// outside the hub lock so callbacks may call back into the store.

type topic int

const (
	topicProjects topic = iota
	topicSessions
	topicSettings
	topicTimer
)

type subKey struct {
	topic  topic
	userID string
}

type hub struct {
	mu   sync.Mutex
	next int
	subs map[subKey]map[int]func()
}

func newHub() *hub {
	return &hub{subs: make(map[subKey]map[int]func())}
}

// add registers fn and returns an idempotent unsubscribe.
func (h *hub) add(t topic, userID string, fn func()) func() {
	h.mu.Lock()
	key := subKey{t, userID}
	if h.subs[key] == nil {
		h.subs[key] = make(map[int]func())
	}
	id := h.next
	h.next++
	h.subs[key][id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[key], id)
			h.mu.Unlock()
		})
	}
}

func (h *hub) dispatch(t topic, userID string) {
	h.mu.Lock()
	key := subKey{t, userID}
	fns := make([]func(), 0, len(h.subs[key]))
	for _, fn := range h.subs[key] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// SubscribeProjects delivers the current project list now and after
// every project write. The returned func releases the subscription.
func (s *Store) SubscribeProjects(userID string, onChange func([]Project)) func() {
	deliver := func() {
		projects, err := s.ListProjects(userID)
		if err != nil {
			log.Printf("store: projects subscription read: %v", err)
			return
		}
		onChange(projects)
	}
	unsub := s.subs.add(topicProjects, userID, deliver)
	deliver()
	return unsub
}

// SubscribeSessions delivers the session history (most recently ended
// first) now and after every session write.
func (s *Store) SubscribeSessions(userID string, onChange func([]Session)) func() {
	deliver := func() {
		sessions, err := s.ListSessions(userID)
		if err != nil {
			log.Printf("store: sessions subscription read: %v", err)
			return
		}
		onChange(sessions)
	}
	unsub := s.subs.add(topicSessions, userID, deliver)
	deliver()
	return unsub
}

// SubscribeSettings delivers the settings now (creating defaults if
// absent) and after every settings write.
func (s *Store) SubscribeSettings(userID string, onChange func(*Settings)) func() {
	deliver := func() {
		set, err := s.GetSettings(userID)
		if err != nil {
			log.Printf("store: settings subscription read: %v", err)
			return
		}
		onChange(set)
	}
	unsub := s.subs.add(topicSettings, userID, deliver)
	deliver()
	return unsub
}

// SubscribeActiveTimer delivers the active timer now and after every
// timer write. The callback receives nil when no timer exists; that
// absence is the sole terminal signal.
func (s *Store) SubscribeActiveTimer(userID string, onChange func(*ActiveTimer)) func() {
	deliver := func() {
		t, err := s.GetActiveTimer(userID)
		if err != nil {
			log.Printf("store: timer subscription read: %v", err)
			return
		}
		onChange(t)
	}
	unsub := s.subs.add(topicTimer, userID, deliver)
	deliver()
	return unsub
}

func (s *Store) notifyProjects(userID string) { s.subs.dispatch(topicProjects, userID) }
func (s *Store) notifySessions(userID string) { s.subs.dispatch(topicSessions, userID) }
func (s *Store) notifySettings(userID string) { s.subs.dispatch(topicSettings, userID) }
func (s *Store) notifyTimer(userID string)    { s.subs.dispatch(topicTimer, userID) }
