package db

import (
	"sync"

	"flockr/types"
)

// BootstrapUserID is the first registered account. It is made an owner of
// every channel it is added to.
const BootstrapUserID = 1

// Repository is the boundary every component reads and writes through.
type Repository interface {
	Update(fn func(tx *Tx) error) error
	View(fn func(tx *Tx) error) error
	Reset(beforeClear func())
}

// Store keeps all users, channels and messages in memory behind a single
// writer lock. Request handlers and timer callbacks both go through Update.
type Store struct {
	mu            sync.RWMutex
	users         map[int]*types.User
	channels      map[int]*types.Channel
	messageIndex  map[int]int
	lastMessageID int
	epoch         uint64
	notifier      types.Notifier
}

var _ Repository = (*Store)(nil)

func NewStore() *Store {
	s := &Store{}
	s.clear()
	return s
}

// SetNotifier registers the receiver of committed events.
func (s *Store) SetNotifier(n types.Notifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

// Update runs fn with exclusive access. Events recorded by fn are
// delivered before the lock is released, and only when fn succeeds.
// Changes are not undone when fn fails, so fn must validate before it
// mutates anything.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{s: s}
	if err := fn(tx); err != nil {
		return err
	}
	if s.notifier != nil {
		for _, ev := range tx.events {
			s.notifier.Notify(ev)
		}
	}
	return nil
}

// View runs fn with shared access. fn must not mutate.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{s: s})
}

// Reset wipes all state. beforeClear runs under the lock so pending timers
// can be cancelled before anything they reference disappears. The notifier
// receives an EventReset once the state is gone.
func (s *Store) Reset(beforeClear func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if beforeClear != nil {
		beforeClear()
	}
	s.clear()
	s.epoch++
	if s.notifier != nil {
		s.notifier.Notify(types.Event{Type: types.EventReset})
	}
}

func (s *Store) clear() {
	s.users = make(map[int]*types.User)
	s.channels = make(map[int]*types.Channel)
	s.messageIndex = make(map[int]int)
	s.lastMessageID = 0
}

// Tx is the handle passed to Update and View callbacks.
type Tx struct {
	s      *Store
	events []types.Event
}

// Epoch changes on every Reset. Timer callbacks compare it to the value
// they captured when scheduled.
func (tx *Tx) Epoch() uint64 {
	return tx.s.epoch
}

func (tx *Tx) emit(ev types.Event) {
	tx.events = append(tx.events, ev)
}
