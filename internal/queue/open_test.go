package queue

import (
	"testing"

	"dining-concierge/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	q, err := Open(config.QueueConfig{
		Driver: config.QueueDriverSQS,
		SQS:    config.SQSConfig{QueueURL: "https://sqs/q"},
	}, &MockSQSService{})
	require.NoError(t, err)
	assert.IsType(t, &SQSQueue{}, q)

	q, err = Open(config.QueueConfig{
		Driver: config.QueueDriverLmstfy,
		Lmstfy: config.LmstfyConfig{Host: "localhost", Port: 7777, Namespace: "dining", Queue: "restaurantQueue", TTL: 60},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LmstfyQueue{}, q)

	_, err = Open(config.QueueConfig{Driver: config.QueueDriverSQS}, nil)
	assert.Error(t, err)

	_, err = Open(config.QueueConfig{Driver: "kafka"}, nil)
	assert.Error(t, err)
}
