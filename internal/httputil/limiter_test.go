// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_NilNeverWaits(t *testing.T) {
	var l *Limiter
	require.NoError(t, l.Wait(context.Background(), "example.org"))
	l.Pause("example.org", time.Hour)
}

func TestLimiter_SpacesRequestsPerHost(t *testing.T) {
	l := NewLimiter(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "a.example"))
	require.NoError(t, l.Wait(ctx, "a.example"))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	// A different host has its own schedule.
	start = time.Now()
	require.NoError(t, l.Wait(ctx, "b.example"))
	assert.Less(t, time.Since(start), 30*time.Millisecond)
}

func TestLimiter_PauseDelaysNextSlot(t *testing.T) {
	l := NewLimiter(0)
	l.Pause("a.example", 25*time.Millisecond)

	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), "a.example"))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0)
	l.Pause("a.example", time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx, "a.example"), context.DeadlineExceeded)
}
