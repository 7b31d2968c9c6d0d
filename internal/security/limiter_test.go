// internal/security/limiter_test.go
package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestLimiterBurstThenDeny(t *testing.T) {
	// Effectively no refill during the test.
	l := NewLimiter(rate.Limit(0.001), 3)
	defer l.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d should be within burst", i)
	}
	assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := NewLimiter(rate.Limit(0.001), 1)
	defer l.Close()

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// A different client address gets its own bucket.
	assert.True(t, l.Allow("10.0.0.2"))
}
