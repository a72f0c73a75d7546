package store

import "testing"

// ============================================================
// Subscription hub
// ============================================================

func TestSubscribeActiveTimerDeliversInitialSnapshot(t *testing.T) {
	s := newTestStore(t)

	var got []*ActiveTimer
	unsub := s.SubscribeActiveTimer(testUser, func(tm *ActiveTimer) {
		got = append(got, tm)
	})
	defer unsub()

	if len(got) != 1 || got[0] != nil {
		t.Fatalf("initial delivery = %v, want one nil (absent)", got)
	}
}

func TestSubscribeActiveTimerSeesWrites(t *testing.T) {
	s := newTestStore(t)

	var got []*ActiveTimer
	unsub := s.SubscribeActiveTimer(testUser, func(tm *ActiveTimer) {
		got = append(got, tm)
	})
	defer unsub()

	s.SetActiveTimer(testUser, &ActiveTimer{Mode: ModeStopwatch, IsActive: true, StartTime: 1})
	s.DeleteActiveTimer(testUser)

	if len(got) != 3 {
		t.Fatalf("deliveries = %d, want 3 (initial, set, delete)", len(got))
	}
	if got[1] == nil || got[1].Mode != ModeStopwatch {
		t.Fatal("set not delivered")
	}
	if got[2] != nil {
		t.Fatal("delete should deliver nil")
	}
}

func TestSubscribeScopedToUser(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	unsub := s.SubscribeActiveTimer(testUser, func(*ActiveTimer) { calls++ })
	defer unsub()

	s.SetActiveTimer("other-user", &ActiveTimer{Mode: ModeStopwatch, IsActive: true, StartTime: 1})
	if calls != 1 {
		t.Fatalf("calls = %d, want only the initial delivery", calls)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	unsub := s.SubscribeActiveTimer(testUser, func(*ActiveTimer) { calls++ })
	unsub()
	unsub() // idempotent

	s.SetActiveTimer(testUser, &ActiveTimer{Mode: ModeStopwatch, IsActive: true, StartTime: 1})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (initial only)", calls)
	}
}

func TestMultipleSubscribersAllNotified(t *testing.T) {
	s := newTestStore(t)

	a, b := 0, 0
	u1 := s.SubscribeActiveTimer(testUser, func(*ActiveTimer) { a++ })
	defer u1()
	u2 := s.SubscribeActiveTimer(testUser, func(*ActiveTimer) { b++ })
	defer u2()

	s.SetActiveTimer(testUser, &ActiveTimer{Mode: ModeStopwatch, IsActive: true, StartTime: 1})
	if a != 2 || b != 2 {
		t.Fatalf("deliveries a=%d b=%d, want 2 each", a, b)
	}
}

func TestSubscribeSettingsCreatesDefaults(t *testing.T) {
	s := newTestStore(t)

	var got *Settings
	unsub := s.SubscribeSettings(testUser, func(set *Settings) { got = set })
	defer unsub()

	if got == nil || got.TimerDuration != DefaultTimerDuration {
		t.Fatalf("initial settings = %+v, want lazy defaults", got)
	}
}

func TestSubscribeSessionsOrdered(t *testing.T) {
	s := newTestStore(t)
	s.CreateSession(testUser, &Session{ID: "old", EndTime: 1000})

	var got [][]Session
	unsub := s.SubscribeSessions(testUser, func(sessions []Session) {
		got = append(got, sessions)
	})
	defer unsub()

	s.CreateSession(testUser, &Session{ID: "new", EndTime: 2000})

	last := got[len(got)-1]
	if len(last) != 2 || last[0].ID != "new" {
		t.Fatalf("sessions feed = %+v, want newest first", last)
	}
}

func TestSubscribeProjectsSeesCRUD(t *testing.T) {
	s := newTestStore(t)

	var last []Project
	unsub := s.SubscribeProjects(testUser, func(projects []Project) { last = projects })
	defer unsub()

	p, _ := s.AddProject(testUser, "A", "#111")
	s.AddProject(testUser, "B", "#222")
	if len(last) != 2 {
		t.Fatalf("projects feed = %+v, want 2", last)
	}

	s.DeleteProject(testUser, p.ID)
	if len(last) != 1 || last[0].Name != "B" {
		t.Fatalf("projects feed after delete = %+v", last)
	}
}

// Callbacks may call back into the store without deadlocking.
func TestSubscriberCanReenterStore(t *testing.T) {
	s := newTestStore(t)

	var seen int
	unsub := s.SubscribeActiveTimer(testUser, func(tm *ActiveTimer) {
		if _, err := s.GetSettings(testUser); err != nil {
			t.Errorf("reentrant read: %v", err)
		}
		seen++
	})
	defer unsub()

	s.SetActiveTimer(testUser, &ActiveTimer{Mode: ModeStopwatch, IsActive: true, StartTime: 1})
	if seen != 2 {
		t.Fatalf("seen = %d, want 2", seen)
	}
}
