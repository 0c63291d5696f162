package camunda

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := map[string]bool{
		"rpc error: code = Unavailable desc = connection refused": true,
		"context deadline exceeded":                               true,
		"rpc error: code = PermissionDenied":                      false,
		"process not found":                                       false,
	}
	for msg, want := range tests {
		assert.Equal(t, want, isRetryableZeebeError(errors.New(msg)), msg)
	}
}

func TestBackoff(t *testing.T) {
	rc := &RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, backoff(rc, 0))
	assert.Equal(t, 2*time.Second, backoff(rc, 1))
	assert.Equal(t, 4*time.Second, backoff(rc, 2))
	assert.Equal(t, 5*time.Second, backoff(rc, 3))
}
