package channels

import (
	"flockr/apierr"
	"flockr/db"
)

func (s *Service) Invite(token string, channelID, targetID int) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		ch, err := lookup(tx, channelID, u.ID)
		if err != nil {
			return err
		}
		if tx.User(targetID) == nil {
			return apierr.Input("User does not exist")
		}
		if ch.IsMember(targetID) {
			return apierr.Input("User is already a member of the channel")
		}
		tx.AddMember(ch, targetID)
		return nil
	})
}

func (s *Service) Join(token string, channelID int) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		ch := tx.Channel(channelID)
		if ch == nil {
			return apierr.Input("Channel does not exist")
		}
		if ch.IsMember(u.ID) {
			return apierr.Input("User is already a member of the channel")
		}
		if !ch.IsPublic {
			return apierr.Access("Channel is private")
		}
		tx.AddMember(ch, u.ID)
		return nil
	})
}

func (s *Service) Leave(token string, channelID int) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		ch, err := lookup(tx, channelID, u.ID)
		if err != nil {
			return err
		}
		tx.RemoveMember(ch, u.ID)
		return nil
	})
}

func (s *Service) AddOwner(token string, channelID, targetID int) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		ch := tx.Channel(channelID)
		if ch == nil {
			return apierr.Input("Channel does not exist")
		}
		if !ch.IsOwner(u.ID) {
			return apierr.Access("User is not an owner of the channel")
		}
		if !ch.IsMember(targetID) {
			return apierr.Input("Target user is not a member of the channel")
		}
		if ch.IsOwner(targetID) {
			return apierr.Input("Target user is already an owner of the channel")
		}
		tx.AddOwner(ch, targetID)
		return nil
	})
}

func (s *Service) RemoveOwner(token string, channelID, targetID int) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		ch := tx.Channel(channelID)
		if ch == nil {
			return apierr.Input("Channel does not exist")
		}
		if !ch.IsOwner(u.ID) {
			return apierr.Access("User is not an owner of the channel")
		}
		if !ch.IsOwner(targetID) {
			return apierr.Access("Target user is not an owner of the channel")
		}
		tx.RemoveOwner(ch, targetID)
		return nil
	})
}
