// Package cache defines the local fallback store used when the remote booking
// store cannot be reached. Values are opaque blobs written whole.
package cache

import (
	"context"
	"errors"
)

var ErrMiss = errors.New("cache miss")

const (
	KeyBookings      = "bookings"
	KeyLastResetWeek = "last_reset_week"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
