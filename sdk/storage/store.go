// Package storage provides the session-scoped key/value store used to
// persist navigation state across page reloads.
package storage

import "context"

// Store is a small key/value contract. Get reports presence explicitly so
// a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
