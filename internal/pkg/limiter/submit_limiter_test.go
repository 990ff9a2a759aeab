package limiter

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestSubmitLimiterRejectsBurstPerKey(t *testing.T) {
	l := NewSubmitLimiter(rate.Limit(0.001), 1)

	require.True(t, l.Allow("login"))
	require.False(t, l.Allow("login"))
	require.True(t, l.Allow("signup"), "keys have independent buckets")
}

func TestSubmitLimiterZeroRateDisables(t *testing.T) {
	l := NewSubmitLimiter(0, 1)
	for i := 0; i < 5; i++ {
		require.True(t, l.Allow("login"))
	}
}

func TestNilSubmitLimiterAllows(t *testing.T) {
	var l *SubmitLimiter
	require.True(t, l.Allow("login"))
}
