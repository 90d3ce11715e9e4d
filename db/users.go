package db

import (
	"sort"

	"flockr/types"
)

func (tx *Tx) NumUsers() int {
	return len(tx.s.users)
}

// AddUser assigns the next sequential id and stores u.
func (tx *Tx) AddUser(u *types.User) *types.User {
	u.ID = len(tx.s.users) + 1
	if u.Channels == nil {
		u.Channels = make(map[int]struct{})
	}
	tx.s.users[u.ID] = u
	return u
}

// SetSession replaces u's session secret. An empty secret logs u out.
// Replacing a live session ends every socket opened under it.
func (tx *Tx) SetSession(u *types.User, secret string) {
	if u.SessionSecret != "" {
		tx.emit(types.Event{Type: types.EventSessionEnded, UserID: u.ID})
	}
	u.SessionSecret = secret
	u.LoggedIn = secret != ""
}

func (tx *Tx) User(id int) *types.User {
	return tx.s.users[id]
}

func (tx *Tx) UserByEmail(email string) *types.User {
	for _, u := range tx.s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (tx *Tx) UserByHandle(handle string) *types.User {
	for _, u := range tx.s.users {
		if u.Handle == handle {
			return u
		}
	}
	return nil
}

func (tx *Tx) UserByResetCode(hash string) *types.User {
	if hash == "" {
		return nil
	}
	for _, u := range tx.s.users {
		if u.ResetCodeHash == hash {
			return u
		}
	}
	return nil
}

// Users returns every user ordered by id.
func (tx *Tx) Users() []*types.User {
	out := make([]*types.User, 0, len(tx.s.users))
	for _, u := range tx.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
