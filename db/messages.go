package db

import (
	"time"

	"flockr/types"
)

// LastMessageID is the highest message id ever issued.
func (tx *Tx) LastMessageID() int {
	return tx.s.lastMessageID
}

// NextMessageID issues a new message id. Ids are never reused.
func (tx *Tx) NextMessageID() int {
	tx.s.lastMessageID++
	return tx.s.lastMessageID
}

// InsertMessage appends m to its channel's history and indexes it.
func (tx *Tx) InsertMessage(m *types.Message) {
	ch := tx.s.channels[m.ChannelID]
	if ch == nil {
		return
	}
	ch.Messages[m.ID] = m
	ch.Order = append(ch.Order, m.ID)
	tx.s.messageIndex[m.ID] = ch.ID
	tx.emit(types.Event{
		Type:      types.EventMessageSent,
		ChannelID: ch.ID,
		MessageID: m.ID,
		UserID:    m.AuthorID,
		Body:      m.Body,
	})
}

// PostMessage issues an id and stores a new message under it.
func (tx *Tx) PostMessage(channelID, authorID int, body string, at time.Time) *types.Message {
	m := types.NewMessage(tx.NextMessageID(), channelID, authorID, body, at)
	tx.InsertMessage(m)
	return m
}

// Message resolves a message and its channel through the id index.
func (tx *Tx) Message(id int) (*types.Message, *types.Channel) {
	chID, ok := tx.s.messageIndex[id]
	if !ok {
		return nil, nil
	}
	ch := tx.s.channels[chID]
	if ch == nil {
		return nil, nil
	}
	return ch.Messages[id], ch
}

func (tx *Tx) RemoveMessage(id int) {
	chID, ok := tx.s.messageIndex[id]
	if !ok {
		return
	}
	delete(tx.s.messageIndex, id)

	ch := tx.s.channels[chID]
	if ch == nil {
		return
	}
	delete(ch.Messages, id)
	for i, mid := range ch.Order {
		if mid == id {
			ch.Order = append(ch.Order[:i], ch.Order[i+1:]...)
			break
		}
	}
	tx.emit(types.Event{Type: types.EventMessageRemoved, ChannelID: chID, MessageID: id})
}

func (tx *Tx) EditMessage(m *types.Message, body string) {
	m.Body = body
	tx.emit(types.Event{
		Type:      types.EventMessageEdited,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Body:      body,
	})
}

func (tx *Tx) SetPinned(m *types.Message, pinned bool) {
	m.IsPinned = pinned
	evType := types.EventMessageUnpinned
	if pinned {
		evType = types.EventMessagePinned
	}
	tx.emit(types.Event{Type: evType, ChannelID: m.ChannelID, MessageID: m.ID})
}

// AddReact records userID under reactID (1-based).
func (tx *Tx) AddReact(m *types.Message, reactID, userID int) {
	r := &m.Reacts[reactID-1]
	r.UserIDs = append(r.UserIDs, userID)
	tx.emit(types.Event{Type: types.EventReact, ChannelID: m.ChannelID, MessageID: m.ID, UserID: userID, ReactID: reactID})
}

func (tx *Tx) RemoveReact(m *types.Message, reactID, userID int) {
	r := &m.Reacts[reactID-1]
	kept := r.UserIDs[:0]
	for _, id := range r.UserIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}
	r.UserIDs = kept
	tx.emit(types.Event{Type: types.EventUnreact, ChannelID: m.ChannelID, MessageID: m.ID, UserID: userID, ReactID: reactID})
}
