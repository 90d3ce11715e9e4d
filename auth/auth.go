package auth

import (
	"fmt"
	"log"

	"flockr/apierr"
	"flockr/db"
	"flockr/mail"
	"flockr/types"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Session is returned by register and login.
type Session struct {
	UserID int    `json:"u_id"`
	Token  string `json:"token"`
}

type Service struct {
	store      db.Repository
	mailer     mail.Mailer
	signingKey []byte
}

func NewService(store db.Repository, mailer mail.Mailer, signingKey string) *Service {
	if mailer == nil {
		mailer = mail.LogMailer{}
	}
	return &Service{store: store, mailer: mailer, signingKey: []byte(signingKey)}
}

func (s *Service) generateToken(userID int, secret string) (string, error) {
	claims := jwt.MapClaims{
		"u_id":           userID,
		"session_secret": secret,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

func (s *Service) parseToken(tokenString string) (int, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return 0, "", apierr.Access("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", apierr.Access("Invalid token")
	}
	rawID, ok := claims["u_id"].(float64)
	if !ok {
		return 0, "", apierr.Access("Invalid token")
	}
	secret, _ := claims["session_secret"].(string)
	return int(rawID), secret, nil
}

// Authorize resolves token to its user inside an open transaction. The
// token is only valid while its embedded secret matches the user's
// current session secret.
func (s *Service) Authorize(tx *db.Tx, token string) (*types.User, error) {
	userID, secret, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	u := tx.User(userID)
	if u == nil || secret == "" || u.SessionSecret != secret {
		return nil, apierr.Access("Invalid token")
	}
	return u, nil
}

// Validate returns the user id behind token.
func (s *Service) Validate(token string) (int, error) {
	var userID int
	err := s.store.View(func(tx *db.Tx) error {
		u, err := s.Authorize(tx, token)
		if err != nil {
			return err
		}
		userID = u.ID
		return nil
	})
	return userID, err
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// startSession rotates the user's secret and signs a token for it.
func (s *Service) startSession(tx *db.Tx, u *types.User) (Session, error) {
	secret := uuid.NewString()
	token, err := s.generateToken(u.ID, secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	tx.SetSession(u, secret)
	return Session{UserID: u.ID, Token: token}, nil
}

func (s *Service) Register(email, password, first, last string) (Session, error) {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return Session{}, apierr.Input("Invalid email")
	}
	if !ValidName(first) {
		return Session{}, apierr.Input("First name must be between 1 and 50 characters")
	}
	if !ValidName(last) {
		return Session{}, apierr.Input("Last name must be between 1 and 50 characters")
	}
	if !ValidPassword(password) {
		return Session{}, apierr.Input("Password must be at least 6 characters")
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return Session{}, err
	}

	var session Session
	err = s.store.Update(func(tx *db.Tx) error {
		if tx.UserByEmail(email) != nil {
			return apierr.Input("Email is already taken")
		}

		permission := types.PermissionMember
		if tx.NumUsers() == 0 {
			permission = types.PermissionOwner
		}
		u := tx.AddUser(&types.User{
			Email:        email,
			PasswordHash: hashed,
			NameFirst:    first,
			NameLast:     last,
			Handle:       generateHandle(tx, first, last),
			Permission:   permission,
		})

		session, err = s.startSession(tx, u)
		return err
	})
	if err != nil {
		return Session{}, err
	}

	log.Printf("Registered user %d", session.UserID)
	return session, nil
}

func (s *Service) Login(email, password string) (Session, error) {
	email = NormalizeEmail(email)

	var userID int
	var hash string
	err := s.store.View(func(tx *db.Tx) error {
		u := tx.UserByEmail(email)
		if u == nil {
			return apierr.Input("User does not exist")
		}
		userID, hash = u.ID, u.PasswordHash
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Session{}, apierr.Input("Password is incorrect")
	}

	var session Session
	err = s.store.Update(func(tx *db.Tx) error {
		u := tx.User(userID)
		if u == nil || u.PasswordHash != hash {
			return apierr.Input("Password is incorrect")
		}
		if session, err = s.startSession(tx, u); err != nil {
			return err
		}
		u.ResetCodeHash = ""
		return nil
	})
	return session, err
}

// Logout never fails loudly. It reports whether a live session was ended.
func (s *Service) Logout(token string) bool {
	ended := false
	_ = s.store.Update(func(tx *db.Tx) error {
		u, err := s.Authorize(tx, token)
		if err != nil {
			return nil
		}
		tx.SetSession(u, "")
		ended = true
		return nil
	})
	return ended
}
