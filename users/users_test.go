package users

import (
	"testing"

	"flockr/apierr"
	"flockr/auth"
	"flockr/db"
)

type fixture struct {
	svc   *Service
	alice auth.Session
	bob   auth.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := db.NewStore()
	authService := auth.NewService(store, nil, "test-secret")
	f := &fixture{svc: NewService(store, authService)}

	var err error
	if f.alice, err = authService.Register("alice@example.com", "password1", "Alice", "Smith"); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if f.bob, err = authService.Register("bob@example.com", "password1", "Bob", "Jones"); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	return f
}

func TestProfileAndAll(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Profile(f.alice.Token, f.bob.UserID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Email != "bob@example.com" || p.HandleStr != "BobJones" || p.NameLast != "Jones" {
		t.Fatalf("unexpected profile %+v", p)
	}
	if _, err := f.svc.Profile(f.alice.Token, 9); !apierr.IsInput(err) {
		t.Fatalf("expected InputError for unknown user, got %v", err)
	}
	if _, err := f.svc.Profile("garbage", f.bob.UserID); !apierr.IsAccess(err) {
		t.Fatalf("expected AccessError for bad token, got %v", err)
	}

	all, err := f.svc.All(f.bob.Token)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all[0].UserID != f.alice.UserID || all[1].UserID != f.bob.UserID {
		t.Fatalf("expected users ordered by id, got %+v", all)
	}
}

func TestSetName(t *testing.T) {
	f := newFixture(t)

	if err := f.svc.SetName(f.alice.Token, "", "Smith"); !apierr.IsInput(err) {
		t.Fatalf("expected InputError for empty first name, got %v", err)
	}
	long := "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijk"
	if err := f.svc.SetName(f.alice.Token, "Alice", long); !apierr.IsInput(err) {
		t.Fatalf("expected InputError for 51 character last name, got %v", err)
	}
	if err := f.svc.SetName(f.alice.Token, "Alicia", "Smythe"); err != nil {
		t.Fatalf("setname: %v", err)
	}
	p, _ := f.svc.Profile(f.alice.Token, f.alice.UserID)
	if p.NameFirst != "Alicia" || p.NameLast != "Smythe" || p.HandleStr != "AliceSmith" {
		t.Fatalf("expected names changed and handle kept, got %+v", p)
	}
}

func TestSetEmailAndHandle(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		run  func() error
		ok   bool
	}{
		{"invalid email", func() error { return f.svc.SetEmail(f.bob.Token, "not-an-email") }, false},
		{"email taken", func() error { return f.svc.SetEmail(f.bob.Token, "ALICE@example.com") }, false},
		{"same email", func() error { return f.svc.SetEmail(f.bob.Token, "bob@example.com") }, true},
		{"new email", func() error { return f.svc.SetEmail(f.bob.Token, " Robert@Example.com ") }, true},
		{"short handle", func() error { return f.svc.SetHandle(f.bob.Token, "bo") }, false},
		{"long handle", func() error { return f.svc.SetHandle(f.bob.Token, "bbbbbbbbbbbbbbbbbbbbb") }, false},
		{"handle taken", func() error { return f.svc.SetHandle(f.bob.Token, "AliceSmith") }, false},
		{"new handle", func() error { return f.svc.SetHandle(f.bob.Token, "bobby") }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tc.ok && !apierr.IsInput(err) {
				t.Fatalf("expected InputError, got %v", err)
			}
		})
	}

	p, _ := f.svc.Profile(f.bob.Token, f.bob.UserID)
	if p.Email != "robert@example.com" || p.HandleStr != "bobby" {
		t.Fatalf("unexpected profile after updates %+v", p)
	}
}
