package top

import (
	"context"
	"errors"
)

var ErrShortRead = errors.New("short timer read")

// Timer reports the number of periods elapsed since the previous call to
// Wait. Wait blocks until at least one period has elapsed or ctx is done.
type Timer interface {
	Wait(ctx context.Context) (uint64, error)
	Close() error
}
