// Package producer enqueues validated dining requests.
package producer

import (
	"context"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
	"dining-concierge/internal/queue"
)

type Producer struct {
	queue  queue.Queue
	delay  time.Duration
	logger logger.Logger
}

func New(q queue.Queue, delay time.Duration, log logger.Logger) *Producer {
	return &Producer{
		queue:  q,
		delay:  delay,
		logger: log.WithFields(map[string]interface{}{"component": "producer"}),
	}
}

// Enqueue sends the request and returns the queue-assigned message id.
// The request is not re-validated here.
func (p *Producer) Enqueue(ctx context.Context, req models.DiningRequest) (string, error) {
	id, err := p.queue.Send(ctx, queue.EncodeRequest(req, p.delay))
	if err != nil {
		p.logger.Error("enqueue failed", map[string]interface{}{"error": err})
		return "", err
	}

	p.logger.Debug("request enqueued", map[string]interface{}{
		"messageId": id,
		"delay":     p.delay.String(),
	})
	return id, nil
}
