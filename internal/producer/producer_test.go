package producer

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
	"dining-concierge/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockQueue struct {
	SendFunc func(ctx context.Context, msg queue.Message) (string, error)
	sent     []queue.Message
}

func (m *MockQueue) Send(ctx context.Context, msg queue.Message) (string, error) {
	m.sent = append(m.sent, msg)
	return m.SendFunc(ctx, msg)
}

func (m *MockQueue) Receive(ctx context.Context, opts queue.ReceiveOptions) (*queue.Envelope, error) {
	return nil, nil
}

func (m *MockQueue) Delete(ctx context.Context, receiptHandle string) error {
	return nil
}

func TestProducer_Enqueue(t *testing.T) {
	q := &MockQueue{
		SendFunc: func(ctx context.Context, msg queue.Message) (string, error) {
			return "msg-42", nil
		},
	}
	p := New(q, 2*time.Second, logger.NewTestLogger(t))

	// an out-of-range party size still goes through: validation happens upstream
	req := models.DiningRequest{Location: "manhattan", Cuisine: "korean", PartySize: 99, Date: "2026-10-19", Time: "19:30", Phone: "2125551234"}
	id, err := p.Enqueue(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "msg-42", id)

	require.Len(t, q.sent, 1)
	assert.Equal(t, queue.RequestBody, q.sent[0].Body)
	assert.Equal(t, 2*time.Second, q.sent[0].Delay)
	assert.Equal(t, "99", q.sent[0].Attributes[queue.AttrPeopleNum].StringValue)
}

func TestProducer_Enqueue_QueueUnavailable(t *testing.T) {
	q := &MockQueue{
		SendFunc: func(ctx context.Context, msg queue.Message) (string, error) {
			return "", apperrors.NewQueueUnavailableError("send", errors.New("throttled"))
		},
	}
	p := New(q, 0, logger.NewNoOpLogger())

	id, err := p.Enqueue(context.Background(), models.DiningRequest{})
	assert.Empty(t, id)
	assert.ErrorIs(t, err, apperrors.ErrQueueUnavailable)
}
