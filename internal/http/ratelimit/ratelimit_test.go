package ratelimit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rogerio-castellano/inventory-api/internal/http/ratelimit"
)

func TestVisitorLimiter_BurstThenReject(t *testing.T) {
	l := ratelimit.NewVisitorLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d within burst must pass", i)
	}
	assert.False(t, l.Allow("10.0.0.1"), "request beyond burst must be rejected")

	// Another client has its own budget.
	assert.True(t, l.Allow("10.0.0.2"))
}
