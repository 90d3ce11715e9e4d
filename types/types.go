package types

import (
	"sort"
	"time"
)

const (
	PermissionOwner  = 1
	PermissionMember = 2
)

// NumReacts is the fixed number of react slots on every message.
const NumReacts = 4

type User struct {
	ID            int
	Email         string
	PasswordHash  string
	NameFirst     string
	NameLast      string
	Handle        string
	SessionSecret string
	ResetCodeHash string
	Permission    int
	LoggedIn      bool
	Channels      map[int]struct{}
}

type Channel struct {
	ID       int
	Name     string
	IsPublic bool
	Owners   map[int]struct{}
	Members  map[int]struct{}
	Messages map[int]*Message
	// Order holds message ids oldest first.
	Order   []int
	Standup Standup
	Kahio   Kahio
	Hangman Hangman
}

func (c *Channel) IsMember(userID int) bool {
	_, ok := c.Members[userID]
	return ok
}

func (c *Channel) IsOwner(userID int) bool {
	_, ok := c.Owners[userID]
	return ok
}

type React struct {
	ID      int
	UserIDs []int
}

func (r *React) Has(userID int) bool {
	for _, id := range r.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type Message struct {
	ID        int
	ChannelID int
	AuthorID  int
	Body      string
	CreatedAt time.Time
	IsPinned  bool
	Reacts    [NumReacts]React
}

func NewMessage(id, channelID, authorID int, body string, at time.Time) *Message {
	m := &Message{
		ID:        id,
		ChannelID: channelID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: at,
	}
	for i := range m.Reacts {
		m.Reacts[i] = React{ID: i + 1, UserIDs: []int{}}
	}
	return m
}

type Standup struct {
	Active      bool
	InitiatorID int
	Buffer      string
	FinishAt    time.Time
	JobID       string
}

type Kahio struct {
	Active      bool
	InitiatorID int
	StartedAt   time.Time
	Answer      string
	Transcript  string
	// Answered starts with the initiator so they cannot guess.
	Answered []int
	JobID    string
}

type Hangman struct {
	Active          bool
	InitiatorID     int
	Word            string
	Revealed        []rune
	Guesses         int
	Failures        int
	Letters         []string
	StatusMessageID int
}

// Wire views

type ReactView struct {
	ReactID           int   `json:"react_id"`
	UserIDs           []int `json:"u_ids"`
	IsThisUserReacted bool  `json:"is_this_user_reacted"`
}

type MessageView struct {
	MessageID   int         `json:"message_id"`
	UserID      int         `json:"u_id"`
	Message     string      `json:"message"`
	TimeCreated int64       `json:"time_created"`
	Reacts      []ReactView `json:"reacts"`
	IsPinned    bool        `json:"is_pinned"`
}

// View renders the message for viewerID, marking the reacts they made.
func (m *Message) View(viewerID int) MessageView {
	reacts := make([]ReactView, 0, NumReacts)
	for i := range m.Reacts {
		r := &m.Reacts[i]
		reacts = append(reacts, ReactView{
			ReactID:           r.ID,
			UserIDs:           append([]int{}, r.UserIDs...),
			IsThisUserReacted: r.Has(viewerID),
		})
	}
	return MessageView{
		MessageID:   m.ID,
		UserID:      m.AuthorID,
		Message:     m.Body,
		TimeCreated: m.CreatedAt.Unix(),
		Reacts:      reacts,
		IsPinned:    m.IsPinned,
	}
}

type MemberView struct {
	UserID        int    `json:"u_id"`
	NameFirst     string `json:"name_first"`
	NameLast      string `json:"name_last"`
	ProfileImgURL string `json:"profile_img_url"`
}

type ChannelSummary struct {
	ChannelID int    `json:"channel_id"`
	Name      string `json:"name"`
}

type ChannelDetails struct {
	Name         string       `json:"name"`
	OwnerMembers []MemberView `json:"owner_members"`
	AllMembers   []MemberView `json:"all_members"`
}

type Profile struct {
	UserID        int    `json:"u_id"`
	Email         string `json:"email"`
	NameFirst     string `json:"name_first"`
	NameLast      string `json:"name_last"`
	HandleStr     string `json:"handle_str"`
	ProfileImgURL string `json:"profile_img_url"`
}

func (u *User) Profile() Profile {
	return Profile{
		UserID:    u.ID,
		Email:     u.Email,
		NameFirst: u.NameFirst,
		NameLast:  u.NameLast,
		HandleStr: u.Handle,
	}
}

func (u *User) Member() MemberView {
	return MemberView{UserID: u.ID, NameFirst: u.NameFirst, NameLast: u.NameLast}
}

// SortedIDs returns the keys of an id set in ascending order.
func SortedIDs(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Live events

const (
	EventMessageSent     = "message"
	EventMessageEdited   = "message_edited"
	EventMessageRemoved  = "message_removed"
	EventMessagePinned   = "message_pinned"
	EventMessageUnpinned = "message_unpinned"
	EventReact           = "react"
	EventUnreact         = "unreact"
	EventMemberJoined    = "member_joined"
	EventMemberLeft      = "member_left"

	// Not tied to a channel. Sockets affected by these are closed.
	EventSessionEnded = "session_ended"
	EventReset        = "reset"
)

type Event struct {
	Type      string `json:"type"`
	ChannelID int    `json:"channel_id"`
	MessageID int    `json:"message_id,omitempty"`
	UserID    int    `json:"u_id,omitempty"`
	Body      string `json:"message,omitempty"`
	ReactID   int    `json:"react_id,omitempty"`
}

// Notifier receives committed store events.
type Notifier interface {
	Notify(ev Event)
}
