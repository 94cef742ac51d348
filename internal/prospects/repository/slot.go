package repository

import (
	"context"
	"errors"
)

// ErrSlotEmpty is returned by Slot.Get when nothing was ever stored under the key.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a durable key-value entry holding one serialized payload per key.
// A Set call must replace the whole payload atomically.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Ping(ctx context.Context) error
}
