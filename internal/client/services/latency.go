package services

import (
	"context"
	"time"

	"github.com/agentfree/sessionkit/internal/timex"
)

// Latency is the artificial delay each operation waits before doing any
// work, standing in for a network round trip. The zero value disables it.
type Latency struct {
	Login         time.Duration
	Signup        time.Duration
	Logout        time.Duration
	CurrentUser   time.Duration
	RefreshToken  time.Duration
	ResetPassword time.Duration
}

// DefaultLatency mirrors the timings of the web client's mock backend.
var DefaultLatency = Latency{
	Login:         800 * time.Millisecond,
	Signup:        1000 * time.Millisecond,
	Logout:        300 * time.Millisecond,
	CurrentUser:   200 * time.Millisecond,
	RefreshToken:  500 * time.Millisecond,
	ResetPassword: 1000 * time.Millisecond,
}

// sleep is a seam so tests can observe requested delays.
var sleep = timex.Sleep

func pause(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}
