package standup

import (
	"log"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"flockr/apierr"
	"flockr/auth"
	"flockr/db"
	"flockr/scheduler"
	"flockr/types"
)

const MaxLineLength = 1000

// MaxLength is the longest standup, in seconds, whose duration fits in a
// time.Duration.
const MaxLength = math.MaxInt64 / int64(time.Second)

type Service struct {
	store db.Repository
	auth  *auth.Service
	sched *scheduler.Scheduler
	// Unit is the real duration of one second of standup length.
	Unit time.Duration
	now  func() time.Time
}

func NewService(store db.Repository, authService *auth.Service, sched *scheduler.Scheduler) *Service {
	return &Service{store: store, auth: authService, sched: sched, Unit: time.Second, now: time.Now}
}

// Status is the reply of Active. TimeFinish is null while no standup runs.
type Status struct {
	IsActive   bool   `json:"is_active"`
	TimeFinish *int64 `json:"time_finish"`
}

func (s *Service) member(tx *db.Tx, token string, channelID int) (*types.User, *types.Channel, error) {
	u, err := s.auth.Authorize(tx, token)
	if err != nil {
		return nil, nil, err
	}
	ch := tx.Channel(channelID)
	if ch == nil {
		return nil, nil, apierr.Input("Channel does not exist")
	}
	if !ch.IsMember(u.ID) {
		return nil, nil, apierr.Access("User is not a member of the channel")
	}
	return u, ch, nil
}

// Start opens a standup of length seconds and returns its finish time.
func (s *Service) Start(token string, channelID, length int) (int64, error) {
	var finish int64
	err := s.store.Update(func(tx *db.Tx) error {
		u, ch, err := s.member(tx, token, channelID)
		if err != nil {
			return err
		}
		if length <= 0 {
			return apierr.Input("Length must be greater than 0")
		}
		if int64(length) > MaxLength || (s.Unit > time.Second && int64(length) > math.MaxInt64/int64(s.Unit)) {
			return apierr.Input("Length is too long")
		}
		if ch.Standup.Active {
			return apierr.Input("A standup is already running on this channel")
		}

		delay := time.Duration(length) * s.Unit
		finishAt := s.now().Add(time.Duration(length) * time.Second)
		ch.Standup = types.Standup{
			Active:      true,
			InitiatorID: u.ID,
			FinishAt:    finishAt,
		}

		var jobID string
		epoch, chID := tx.Epoch(), ch.ID
		jobID = s.sched.Schedule(scheduler.KindStandup, delay, func() {
			s.flush(epoch, chID, &jobID)
		})
		ch.Standup.JobID = jobID
		finish = finishAt.Unix()
		return nil
	})
	return finish, err
}

// flush posts the buffered lines as one message from the initiator.
func (s *Service) flush(epoch uint64, channelID int, jobID *string) {
	_ = s.store.Update(func(tx *db.Tx) error {
		if tx.Epoch() != epoch {
			return nil
		}
		ch := tx.Channel(channelID)
		if ch == nil || !ch.Standup.Active || ch.Standup.JobID != *jobID {
			return nil
		}

		st := ch.Standup
		ch.Standup = types.Standup{}
		body := strings.TrimSuffix(st.Buffer, "\n")
		if body == "" {
			log.Printf("standup: channel %d finished with nothing to post", channelID)
			return nil
		}
		tx.PostMessage(ch.ID, st.InitiatorID, body, s.now())
		return nil
	})
}

func (s *Service) Active(token string, channelID int) (Status, error) {
	var status Status
	err := s.store.View(func(tx *db.Tx) error {
		_, ch, err := s.member(tx, token, channelID)
		if err != nil {
			return err
		}
		if ch.Standup.Active {
			finish := ch.Standup.FinishAt.Unix()
			status = Status{IsActive: true, TimeFinish: &finish}
		}
		return nil
	})
	return status, err
}

// Send appends a line to the running standup's buffer.
func (s *Service) Send(token string, channelID int, message string) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, ch, err := s.member(tx, token, channelID)
		if err != nil {
			return err
		}
		if !ch.Standup.Active {
			return apierr.Input("There is no standup running on this channel")
		}
		if utf8.RuneCountInString(message) > MaxLineLength {
			return apierr.Input("Message is more than 1000 characters")
		}
		ch.Standup.Buffer += u.Handle + ": " + message + "\n"
		return nil
	})
}
