package options

import (
	"context"
	"errors"
)

// ErrEmptyName is returned when an option name is blank
var ErrEmptyName = errors.New("option name cannot be empty")

// Store persists option records by name.
// Get on a missing record returns an empty Record and no error.
type Store interface {
	Get(ctx context.Context, name string) (Record, error)
	Update(ctx context.Context, name string, record Record) error
	Delete(ctx context.Context, name string) error
	Names(ctx context.Context) ([]string, error)
	Close() error
}

// Exists reports whether the store holds a record called name
func Exists(ctx context.Context, s Store, name string) (bool, error) {
	names, err := s.Names(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}
