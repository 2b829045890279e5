package batch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks between items to throttle requests to the remote node.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer spaces consecutive items at least interval apart. The first
// Wait also blocks for a full interval. A non-positive interval disables
// pacing.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return noPause{}
	}
	lim := rate.NewLimiter(rate.Every(interval), 1)
	lim.Allow() // drain the initial burst token
	return lim
}

type noPause struct{}

func (noPause) Wait(context.Context) error { return nil }
