package db

import (
	"sort"

	"flockr/types"
)

func (tx *Tx) NumChannels() int {
	return len(tx.s.channels)
}

// AddChannel creates a channel with creatorID as its first owner and member.
func (tx *Tx) AddChannel(name string, isPublic bool, creatorID int) *types.Channel {
	ch := &types.Channel{
		ID:       len(tx.s.channels) + 1,
		Name:     name,
		IsPublic: isPublic,
		Owners:   make(map[int]struct{}),
		Members:  make(map[int]struct{}),
		Messages: make(map[int]*types.Message),
	}
	tx.s.channels[ch.ID] = ch
	tx.AddMember(ch, creatorID)
	tx.AddOwner(ch, creatorID)
	return ch
}

func (tx *Tx) Channel(id int) *types.Channel {
	return tx.s.channels[id]
}

// Channels returns every channel ordered by id.
func (tx *Tx) Channels() []*types.Channel {
	out := make([]*types.Channel, 0, len(tx.s.channels))
	for _, ch := range tx.s.channels {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddMember links the user and the channel in both directions.
func (tx *Tx) AddMember(ch *types.Channel, userID int) {
	u := tx.s.users[userID]
	if u == nil {
		return
	}
	ch.Members[userID] = struct{}{}
	u.Channels[ch.ID] = struct{}{}
	if userID == BootstrapUserID {
		ch.Owners[userID] = struct{}{}
	}
	tx.emit(types.Event{Type: types.EventMemberJoined, ChannelID: ch.ID, UserID: userID})
}

// RemoveMember drops the user from the owner and member sets and from the
// user's own channel list.
func (tx *Tx) RemoveMember(ch *types.Channel, userID int) {
	delete(ch.Owners, userID)
	delete(ch.Members, userID)
	if u := tx.s.users[userID]; u != nil {
		delete(u.Channels, ch.ID)
	}
	tx.emit(types.Event{Type: types.EventMemberLeft, ChannelID: ch.ID, UserID: userID})
}

func (tx *Tx) AddOwner(ch *types.Channel, userID int) {
	ch.Owners[userID] = struct{}{}
}

func (tx *Tx) RemoveOwner(ch *types.Channel, userID int) {
	delete(ch.Owners, userID)
}
