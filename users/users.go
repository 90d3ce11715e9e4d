package users

import (
	"flockr/apierr"
	"flockr/auth"
	"flockr/db"
	"flockr/types"
)

type Service struct {
	store db.Repository
	auth  *auth.Service
}

func NewService(store db.Repository, authService *auth.Service) *Service {
	return &Service{store: store, auth: authService}
}

func (s *Service) Profile(token string, userID int) (types.Profile, error) {
	var profile types.Profile
	err := s.store.View(func(tx *db.Tx) error {
		if _, err := s.auth.Authorize(tx, token); err != nil {
			return err
		}
		u := tx.User(userID)
		if u == nil {
			return apierr.Input("User does not exist")
		}
		profile = u.Profile()
		return nil
	})
	return profile, err
}

// All lists every registered user.
func (s *Service) All(token string) ([]types.Profile, error) {
	var out []types.Profile
	err := s.store.View(func(tx *db.Tx) error {
		if _, err := s.auth.Authorize(tx, token); err != nil {
			return err
		}
		all := tx.Users()
		out = make([]types.Profile, 0, len(all))
		for _, u := range all {
			out = append(out, u.Profile())
		}
		return nil
	})
	return out, err
}

func (s *Service) SetName(token, first, last string) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		if !auth.ValidName(first) {
			return apierr.Input("First name must be between 1 and 50 characters")
		}
		if !auth.ValidName(last) {
			return apierr.Input("Last name must be between 1 and 50 characters")
		}
		u.NameFirst, u.NameLast = first, last
		return nil
	})
}

func (s *Service) SetEmail(token, email string) error {
	email = auth.NormalizeEmail(email)
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		if !auth.ValidEmail(email) {
			return apierr.Input("Invalid email")
		}
		if other := tx.UserByEmail(email); other != nil && other.ID != u.ID {
			return apierr.Input("Email is already taken")
		}
		u.Email = email
		return nil
	})
}

func (s *Service) SetHandle(token, handle string) error {
	return s.store.Update(func(tx *db.Tx) error {
		u, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		if !auth.ValidHandle(handle) {
			return apierr.Input("Handle must be between 3 and 20 characters")
		}
		if other := tx.UserByHandle(handle); other != nil && other.ID != u.ID {
			return apierr.Input("Handle is already taken")
		}
		u.Handle = handle
		return nil
	})
}
