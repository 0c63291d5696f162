package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "dining-concierge/internal/common/errors"

	"github.com/bitleak/lmstfy/client"
)

// LmstfyService is the subset of the lmstfy client used here.
type LmstfyService interface {
	Publish(queue string, data []byte, ttlSecond uint32, tries uint16, delaySecond uint32) (string, error)
	Consume(queue string, ttrSecond, timeoutSecond uint32) (*client.Job, error)
	Ack(queue, jobID string) error
}

// lmstfyConn adapts *client.LmstfyClient to LmstfyService.
type lmstfyConn struct {
	cli *client.LmstfyClient
}

// NewLmstfyService connects to an lmstfy namespace.
func NewLmstfyService(host string, port int, namespace, token string) LmstfyService {
	return &lmstfyConn{cli: client.NewLmstfyClient(host, port, namespace, token)}
}

func (c *lmstfyConn) Publish(queue string, data []byte, ttlSecond uint32, tries uint16, delaySecond uint32) (string, error) {
	jobID, err := c.cli.Publish(queue, data, ttlSecond, tries, delaySecond)
	if err != nil {
		return "", fmt.Errorf("lmstfy publish failed: %w", err)
	}
	return jobID, nil
}

func (c *lmstfyConn) Consume(queue string, ttrSecond, timeoutSecond uint32) (*client.Job, error) {
	job, err := c.cli.Consume(queue, ttrSecond, timeoutSecond)
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume failed: %w", err)
	}
	return job, nil
}

func (c *lmstfyConn) Ack(queue, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy ack failed: %w", err)
	}
	return nil
}

// minTTR is the smallest time-to-run lmstfy accepts on consume.
const minTTR uint32 = 1

// LmstfyQueue carries the message as a JSON document in the job payload.
// The job id doubles as message id and receipt handle.
type LmstfyQueue struct {
	client LmstfyService
	queue  string
	ttl    uint32
}

func NewLmstfyQueue(client LmstfyService, queue string, ttl time.Duration) *LmstfyQueue {
	return &LmstfyQueue{client: client, queue: queue, ttl: uint32(ttl / time.Second)}
}

func (q *LmstfyQueue) Send(ctx context.Context, msg Message) (string, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return "", apperrors.NewQueueUnavailableError("send", err)
	}
	jobID, err := q.client.Publish(q.queue, data, q.ttl, 1, uint32(msg.Delay/time.Second))
	if err != nil {
		return "", apperrors.NewQueueUnavailableError("send", err)
	}
	return jobID, nil
}

func (q *LmstfyQueue) Receive(ctx context.Context, opts ReceiveOptions) (*Envelope, error) {
	ttr := uint32(opts.VisibilityTimeout / time.Second)
	if ttr < minTTR {
		ttr = minTTR
	}
	job, err := q.client.Consume(q.queue, ttr, uint32(opts.WaitTime/time.Second))
	if err != nil {
		return nil, apperrors.NewQueueUnavailableError("receive", err)
	}
	if job == nil {
		return nil, nil
	}

	env := &Envelope{MessageID: job.ID, ReceiptHandle: job.ID}
	var msg Message
	if err := json.Unmarshal(job.Data, &msg); err != nil {
		// Undecodable payloads still come back so the consumer can delete them.
		return env, nil
	}
	env.Body = msg.Body
	env.Attributes = msg.Attributes
	return env, nil
}

func (q *LmstfyQueue) Delete(ctx context.Context, receiptHandle string) error {
	if err := q.client.Ack(q.queue, receiptHandle); err != nil {
		return apperrors.NewQueueUnavailableError("delete", err)
	}
	return nil
}
