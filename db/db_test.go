package db

import (
	"errors"
	"testing"
	"time"

	"flockr/types"
)

type recordingNotifier struct {
	events []types.Event
}

func (r *recordingNotifier) Notify(ev types.Event) {
	r.events = append(r.events, ev)
}

func seedUsers(t *testing.T, s *Store, n int) {
	t.Helper()
	err := s.Update(func(tx *Tx) error {
		for i := 0; i < n; i++ {
			tx.AddUser(&types.User{Handle: string(rune('a' + i))})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
}

func TestMembershipIsBidirectional(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, 3)

	_ = s.Update(func(tx *Tx) error {
		ch := tx.AddChannel("general", true, 2)
		tx.AddMember(ch, 3)

		if !ch.IsMember(3) {
			t.Fatalf("expected user 3 in member set")
		}
		if _, ok := tx.User(3).Channels[ch.ID]; !ok {
			t.Fatalf("expected channel in user 3 channel list")
		}
		if ch.IsOwner(3) {
			t.Fatalf("expected plain member not to be an owner")
		}

		tx.AddOwner(ch, 3)
		tx.RemoveMember(ch, 3)
		if ch.IsMember(3) || ch.IsOwner(3) {
			t.Fatalf("expected user 3 removed from owner and member sets")
		}
		if _, ok := tx.User(3).Channels[ch.ID]; ok {
			t.Fatalf("expected channel removed from user 3 channel list")
		}
		return nil
	})
}

func TestBootstrapUserBecomesOwnerOnAdd(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, 2)

	_ = s.Update(func(tx *Tx) error {
		ch := tx.AddChannel("b-owned", false, 2)
		tx.AddMember(ch, BootstrapUserID)
		if !ch.IsOwner(BootstrapUserID) {
			t.Fatalf("expected bootstrap user to be made an owner")
		}
		return nil
	})
}

func TestMessageIndexTracksInsertAndRemove(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, 1)

	var first, second int
	_ = s.Update(func(tx *Tx) error {
		ch := tx.AddChannel("c", true, 1)
		first = tx.PostMessage(ch.ID, 1, "one", time.Now()).ID
		second = tx.PostMessage(ch.ID, 1, "two", time.Now()).ID
		return nil
	})
	if second != first+1 {
		t.Fatalf("expected sequential ids, got %d then %d", first, second)
	}

	_ = s.Update(func(tx *Tx) error {
		tx.RemoveMessage(first)
		if m, _ := tx.Message(first); m != nil {
			t.Fatalf("expected removed message to be gone from index")
		}
		m, ch := tx.Message(second)
		if m == nil || ch == nil || m.Body != "two" {
			t.Fatalf("expected second message to resolve")
		}
		if len(ch.Order) != 1 || ch.Order[0] != second {
			t.Fatalf("unexpected order after removal: %v", ch.Order)
		}
		if tx.NextMessageID() != second+1 {
			t.Fatalf("expected ids never to be reused")
		}
		return nil
	})
}

func TestUpdateDeliversEventsOnlyOnSuccess(t *testing.T) {
	s := NewStore()
	rec := &recordingNotifier{}
	s.SetNotifier(rec)
	seedUsers(t, s, 1)

	_ = s.Update(func(tx *Tx) error {
		ch := tx.AddChannel("c", true, 1)
		tx.PostMessage(ch.ID, 1, "hello", time.Now())
		return nil
	})
	if len(rec.events) != 2 || rec.events[1].Type != types.EventMessageSent {
		t.Fatalf("unexpected events: %+v", rec.events)
	}

	rec.events = nil
	err := s.Update(func(tx *Tx) error {
		tx.PostMessage(1, 1, "dropped", time.Now())
		return errors.New("abort")
	})
	if err == nil {
		t.Fatalf("expected error to propagate")
	}
	if len(rec.events) != 0 {
		t.Fatalf("expected no events from failed update, got %+v", rec.events)
	}
}

func TestResetClearsStateAndBumpsEpoch(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, 2)

	var before uint64
	_ = s.View(func(tx *Tx) error {
		before = tx.Epoch()
		return nil
	})

	hookRan := false
	s.Reset(func() { hookRan = true })
	if !hookRan {
		t.Fatalf("expected reset hook to run")
	}

	_ = s.View(func(tx *Tx) error {
		if tx.NumUsers() != 0 || tx.NumChannels() != 0 || tx.LastMessageID() != 0 {
			t.Fatalf("expected empty store after reset")
		}
		if tx.Epoch() == before {
			t.Fatalf("expected epoch to change on reset")
		}
		return nil
	})
}

func TestSessionAndResetEvents(t *testing.T) {
	s := NewStore()
	rec := &recordingNotifier{}
	s.SetNotifier(rec)
	seedUsers(t, s, 1)

	_ = s.Update(func(tx *Tx) error {
		tx.SetSession(tx.User(1), "first")
		return nil
	})
	if len(rec.events) != 0 {
		t.Fatalf("expected no event starting a fresh session, got %+v", rec.events)
	}

	_ = s.Update(func(tx *Tx) error {
		tx.SetSession(tx.User(1), "")
		return nil
	})
	if len(rec.events) != 1 || rec.events[0].Type != types.EventSessionEnded || rec.events[0].UserID != 1 {
		t.Fatalf("expected session_ended for user 1, got %+v", rec.events)
	}
	_ = s.View(func(tx *Tx) error {
		if tx.User(1).LoggedIn {
			t.Fatalf("expected empty secret to log the user out")
		}
		return nil
	})

	rec.events = nil
	s.Reset(nil)
	if len(rec.events) != 1 || rec.events[0].Type != types.EventReset {
		t.Fatalf("expected a reset event, got %+v", rec.events)
	}
}
