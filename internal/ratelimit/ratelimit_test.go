package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBurstThenThrottle(t *testing.T) {
	l := NewInMemoryLimiter(1, time.Minute, 3)

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("u1"), "burst request %d should pass", i)
	}
	require.False(t, l.Allow("u1"))
}

func TestUsersAreIndependent(t *testing.T) {
	l := NewInMemoryLimiter(1, time.Minute, 1)

	require.True(t, l.Allow("u1"))
	require.False(t, l.Allow("u1"))
	require.True(t, l.Allow("u2"))
}
