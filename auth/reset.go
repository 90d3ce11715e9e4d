package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"flockr/apierr"
	"flockr/db"
)

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return ""
}

// generateResetCode wraps a random 6-digit number in the user's initials.
func generateResetCode(first, last string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d%s", initial(first), n.Int64()+100000, initial(last)), nil
}

// RequestReset issues a reset code to a logged-out account and mails it.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	var recipient, name, code string
	err := s.store.Update(func(tx *db.Tx) error {
		u := tx.UserByEmail(email)
		if u == nil {
			return apierr.Input("User does not exist")
		}
		if u.LoggedIn {
			return apierr.Input("User is currently logged in")
		}

		var err error
		code, err = generateResetCode(u.NameFirst, u.NameLast)
		if err != nil {
			return fmt.Errorf("generate reset code: %w", err)
		}
		u.ResetCodeHash = hashResetCode(code)
		recipient, name = u.Email, u.NameFirst
		return nil
	})
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Hi %s,\n\nYour Flockr password reset code is: %s\n\nIf you did not request this, you can ignore this email.", name, code)
	if err := s.mailer.Send(ctx, recipient, "Flockr password reset", body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ConsumeReset sets a new password for the account holding code.
func (s *Service) ConsumeReset(code, newPassword string) error {
	hash := hashResetCode(code)

	err := s.store.View(func(tx *db.Tx) error {
		if tx.UserByResetCode(hash) == nil {
			return apierr.Input("Reset code is invalid")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !ValidPassword(newPassword) {
		return apierr.Input("Password must be at least 6 characters")
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.store.Update(func(tx *db.Tx) error {
		u := tx.UserByResetCode(hash)
		if u == nil {
			return apierr.Input("Reset code is invalid")
		}
		u.PasswordHash = hashed
		u.ResetCodeHash = ""
		return nil
	})
}
