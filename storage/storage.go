// Package storage provides the durable local storage backing the session.
//
// A store holds exactly two named slots — the opaque session token and the
// serialized user payload — written together on login and removed together
// on logout or failed validation.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no session has been persisted.
var ErrNotFound = errors.New("storage: no persisted session")

// Store defines the contract for durable session storage backends.
type Store interface {
	// Save persists the token and serialized user payload together,
	// replacing any previous values.
	Save(ctx context.Context, token string, user []byte) error

	// Load returns the persisted token and user payload, or ErrNotFound.
	Load(ctx context.Context) (token string, user []byte, err error)

	// Clear removes both slots. Clearing an empty store is not an error.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
