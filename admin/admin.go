package admin

import (
	"log"

	"flockr/apierr"
	"flockr/auth"
	"flockr/db"
	"flockr/scheduler"
	"flockr/types"
)

type Service struct {
	store db.Repository
	auth  *auth.Service
	sched *scheduler.Scheduler
}

func NewService(store db.Repository, authService *auth.Service, sched *scheduler.Scheduler) *Service {
	return &Service{store: store, auth: authService, sched: sched}
}

// ChangePermission sets a user's global permission. Only global owners may
// call it.
func (s *Service) ChangePermission(token string, userID, permissionID int) error {
	return s.store.Update(func(tx *db.Tx) error {
		caller, err := s.auth.Authorize(tx, token)
		if err != nil {
			return err
		}
		if caller.Permission != types.PermissionOwner {
			return apierr.Access("User is not owner of Flockr")
		}
		target := tx.User(userID)
		if target == nil {
			return apierr.Input("Target user does not exist")
		}
		if permissionID != types.PermissionOwner && permissionID != types.PermissionMember {
			return apierr.Input("Permission id is not a valid value")
		}
		target.Permission = permissionID
		return nil
	})
}

// Clear cancels every pending job and wipes the store.
func (s *Service) Clear() {
	var cancelled int
	s.store.Reset(func() {
		cancelled = s.sched.CancelAll()
	})
	log.Printf("Store cleared, %d pending jobs cancelled", cancelled)
}

// Echo returns data unchanged. The literal "echo" is rejected.
func Echo(data string) (string, error) {
	if data == "echo" {
		return "", apierr.Input("Input cannot be echo")
	}
	return data, nil
}
