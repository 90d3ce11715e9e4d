package channels

import (
	"unicode/utf8"

	"flockr/apierr"
	"flockr/auth"
	"flockr/db"
	"flockr/types"
)

const MaxNameLength = 20

type Service struct {
	store db.Repository
	auth  *auth.Service
}

func NewService(store db.Repository, authService *auth.Service) *Service {
	return &Service{store: store, auth: authService}
}

// lookup resolves a channel that the caller must belong to.
func lookup(tx *db.Tx, channelID, userID int) (*types.Channel, error) {
	ch := tx.Channel(channelID)
	if ch == nil {
		return nil, apierr.Input("Channel does not exist")
	}
	if !ch.IsMember(userID) {
		return nil, apierr.Access("User is not a member of the channel")
	}
	return ch, nil
}

func (s *Service) Create(token, name string, isPublic bool) (int, error) {
	var channelID int
	err := s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return apierr.Input("Channel name must be 20 characters or fewer")
		}
		channelID = tx.AddChannel(name, isPublic, u.ID).ID
		return nil
	})
	return channelID, err
}

// List returns the channels the caller belongs to.
func (s *Service) List(token string) ([]types.ChannelSummary, error) {
	var out []types.ChannelSummary
	err := s.store.View(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		out = make([]types.ChannelSummary, 0, len(u.Channels))
		for _, id := range types.SortedIDs(u.Channels) {
			if ch := tx.Channel(id); ch != nil {
				out = append(out, types.ChannelSummary{ChannelID: ch.ID, Name: ch.Name})
			}
		}
		return nil
	})
	return out, err
}

func (s *Service) ListAll(token string) ([]types.ChannelSummary, error) {
	var out []types.ChannelSummary
	err := s.store.View(func(tx *db.Tx) error {
		if _, err := s.auth.Authorize(tx, token); err != nil {
			return err
		}
		all := tx.Channels()
		out = make([]types.ChannelSummary, 0, len(all))
		for _, ch := range all {
			out = append(out, types.ChannelSummary{ChannelID: ch.ID, Name: ch.Name})
		}
		return nil
	})
	return out, err
}

func (s *Service) Details(token string, channelID int) (types.ChannelDetails, error) {
	var details types.ChannelDetails
	err := s.store.View(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		ch, err := lookup(tx, channelID, u.ID)
		if err != nil {
			return err
		}

		details = types.ChannelDetails{
			Name:         ch.Name,
			OwnerMembers: memberViews(tx, ch.Owners),
			AllMembers:   memberViews(tx, ch.Members),
		}
		return nil
	})
	return details, err
}

func memberViews(tx *db.Tx, set map[int]struct{}) []types.MemberView {
	out := make([]types.MemberView, 0, len(set))
	for _, id := range types.SortedIDs(set) {
		if u := tx.User(id); u != nil {
			out = append(out, u.Member())
		}
	}
	return out
}
