// Package cache provides the key-value blob store used to persist client
// state across restarts.
package cache

import "context"

// Store is a key-value blob store. A missing key is reported by ok == false,
// never by an error.
type Store interface {
	GetItem(ctx context.Context, name string) (value []byte, ok bool, err error)
	SetItem(ctx context.Context, name string, value []byte) error
	RemoveItem(ctx context.Context, name string) error
}
