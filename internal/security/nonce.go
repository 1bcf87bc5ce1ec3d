package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/crypto/hkdf"
)

// ErrInvalidNonce is returned when a nonce is missing, malformed or expired
var ErrInvalidNonce = errors.New("invalid or expired nonce")

const (
	nonceKeySize = 32
	nonceLength  = 20
	nonceInfo    = "seopress-nonce-v1"
)

// Nonces issues and verifies short-lived tokens bound to an action and a user.
// Time is divided into ticks of half the lifetime; a token is accepted during
// the tick it was issued in and the following one.
type Nonces struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewNonces derives the signing key from secret. An empty secret yields a random
// key, so tokens do not survive a restart.
func NewNonces(secret string, lifetime time.Duration) (*Nonces, error) {
	if lifetime <= 0 {
		return nil, fmt.Errorf("nonce lifetime must be positive")
	}

	ikm := []byte(secret)
	if len(ikm) == 0 {
		ikm = make([]byte, nonceKeySize)
		if _, err := rand.Read(ikm); err != nil {
			return nil, fmt.Errorf("failed to generate nonce secret: %w", err)
		}
	}

	key := make([]byte, nonceKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte(nonceInfo)), key); err != nil {
		return nil, fmt.Errorf("HKDF key derivation failed: %w", err)
	}

	return &Nonces{
		key:      key,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Create returns the token for action and user in the current tick
func (n *Nonces) Create(action, user string) string {
	return n.token(n.tick(), action, user)
}

// Verify checks token against the current and the previous tick
func (n *Nonces) Verify(token, action, user string) error {
	if token == "" {
		return ErrInvalidNonce
	}

	tick := n.tick()
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(token), []byte(n.token(t, action, user))) {
			return nil
		}
	}
	return ErrInvalidNonce
}

func (n *Nonces) tick() int64 {
	half := n.lifetime / 2
	if half <= 0 {
		half = n.lifetime
	}
	return n.now().UnixNano() / int64(half)
}

func (n *Nonces) token(tick int64, action, user string) string {
	mac := hmac.New(sha256.New, n.key)
	mac.Write([]byte(strconv.FormatInt(tick, 10)))
	mac.Write([]byte{'|'})
	mac.Write([]byte(action))
	mac.Write([]byte{'|'})
	mac.Write([]byte(user))
	return hex.EncodeToString(mac.Sum(nil))[:nonceLength]
}
