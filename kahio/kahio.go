package kahio

import (
	"fmt"
	"log"
	"time"

	"flockr/apierr"
	"flockr/db"
	"flockr/scheduler"
	"flockr/types"
)

// Service runs trivia rounds. Round state lives on the channel; the
// countdown is a chain of scheduler jobs whose current id is kept in
// Kahio.JobID so superseded ticks do nothing.
type Service struct {
	store db.Repository
	sched *scheduler.Scheduler
	// Unit is the real duration of one countdown second.
	Unit time.Duration
}

func NewService(store db.Repository, sched *scheduler.Scheduler) *Service {
	return &Service{store: store, sched: sched, Unit: time.Second}
}

func (s *Service) Start(tx *db.Tx, ch *types.Channel, starter *types.User, body string, messageID int, at time.Time) error {
	if !ch.IsOwner(starter.ID) {
		return apierr.Access("User is not an owner of the channel")
	}
	if ch.Kahio.Active {
		return apierr.Input("There is already a kahio running on this channel")
	}
	if ch.Hangman.Active {
		return apierr.Input("A hangman session is active on this channel")
	}
	round, err := ParseStart(body)
	if err != nil {
		return err
	}

	ch.Kahio = types.Kahio{
		Active:      true,
		InitiatorID: starter.ID,
		StartedAt:   at,
		Answer:      round.Answer,
		Answered:    []int{starter.ID},
	}
	tx.InsertMessage(types.NewMessage(messageID, ch.ID, starter.ID, round.Question, at))
	ch.Kahio.JobID = s.schedule(tx.Epoch(), ch.ID, round.Seconds, s.Unit/10)
	return nil
}

func (s *Service) schedule(epoch uint64, channelID, remaining int, delay time.Duration) string {
	var jobID string
	jobID = s.sched.Schedule(scheduler.KindKahio, delay, func() {
		// jobID is assigned while the scheduling transaction still holds
		// the store lock, so it is set by the time tick gets the lock.
		s.tick(epoch, channelID, &jobID, remaining)
	})
	return jobID
}

func (s *Service) tick(epoch uint64, channelID int, jobID *string, remaining int) {
	_ = s.store.Update(func(tx *db.Tx) error {
		if tx.Epoch() != epoch {
			return nil
		}
		ch := tx.Channel(channelID)
		if ch == nil || !ch.Kahio.Active || ch.Kahio.JobID != *jobID {
			return nil
		}

		now := time.Now()
		if remaining <= 0 {
			s.finish(tx, ch, now)
			return nil
		}

		tx.PostMessage(ch.ID, ch.Kahio.InitiatorID, fmt.Sprintf("The kahio game has %d seconds remaining", remaining), now)
		step := NextInterval(remaining)
		ch.Kahio.JobID = s.schedule(epoch, ch.ID, remaining-step, time.Duration(step)*s.Unit)
		return nil
	})
}

func (s *Service) finish(tx *db.Tx, ch *types.Channel, at time.Time) {
	k := &ch.Kahio
	correct := len(k.Answered) - 1

	body := "Kahio game has ended.\nThe correct answer was " + k.Answer + "\n"
	if correct == 0 {
		body += "No correct answers"
	} else {
		body += fmt.Sprintf("%d correct answers", correct)
	}
	body += k.Transcript

	tx.PostMessage(ch.ID, k.InitiatorID, body, at)
	k.Active = false
	k.JobID = ""
	log.Printf("kahio: round in channel %d ended with %d correct answers", ch.ID, correct)
}

// Guess treats body as an answer attempt in the running round.
func (s *Service) Guess(tx *db.Tx, ch *types.Channel, guesser *types.User, body string, messageID int, at time.Time) error {
	k := &ch.Kahio
	if !k.Active {
		return apierr.Input("There isn't a kahio running on this channel")
	}
	for _, id := range k.Answered {
		if id == guesser.ID {
			return apierr.Input("The user already has the answer")
		}
	}

	if Normalize(body) != k.Answer {
		tx.InsertMessage(types.NewMessage(messageID, ch.ID, guesser.ID, body, at))
		return nil
	}

	k.Answered = append(k.Answered, guesser.ID)
	elapsed := at.Sub(k.StartedAt).Seconds() / s.Unit.Seconds()
	k.Transcript += fmt.Sprintf("\n%d: %s got the correct answer at %.1f seconds", len(k.Answered)-1, guesser.Handle, elapsed)

	text := guesser.Handle + " guessed the correct answer"
	tx.InsertMessage(types.NewMessage(messageID, ch.ID, k.InitiatorID, text, at))
	return nil
}

// End stops the running round and posts the stop notice as caller.
func (s *Service) End(tx *db.Tx, ch *types.Channel, caller *types.User, messageID int, at time.Time) error {
	if !ch.IsOwner(caller.ID) {
		return apierr.Access("User is not an owner of the channel")
	}
	if !ch.Kahio.Active {
		return apierr.Input("There isn't a kahio running on this channel")
	}

	s.sched.Cancel(ch.Kahio.JobID)
	ch.Kahio.Active = false
	ch.Kahio.JobID = ""
	tx.InsertMessage(types.NewMessage(messageID, ch.ID, caller.ID, "The KAHIO game has been stopped", at))
	return nil
}
