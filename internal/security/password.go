package security

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the admin user or password does not match
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword returns the bcrypt hash of password at the default cost
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticator checks admin credentials against a configured user and bcrypt hash
type Authenticator struct {
	user string
	hash []byte
}

// NewAuthenticator validates hash and returns an Authenticator for user
func NewAuthenticator(user, hash string) (*Authenticator, error) {
	if user == "" {
		return nil, fmt.Errorf("admin user cannot be empty")
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	return &Authenticator{user: user, hash: []byte(hash)}, nil
}

// Check returns nil when user and password match
func (a *Authenticator) Check(user, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// User returns the configured admin user name
func (a *Authenticator) User() string {
	return a.user
}
