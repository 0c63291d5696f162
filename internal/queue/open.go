package queue

import (
	"fmt"
	"time"

	"dining-concierge/internal/common/config"
)

// Open builds the backend named by cfg.Driver. sqsClient is only used by the sqs driver.
func Open(cfg config.QueueConfig, sqsClient SQSService) (Queue, error) {
	switch cfg.Driver {
	case config.QueueDriverSQS:
		if sqsClient == nil {
			return nil, fmt.Errorf("sqs driver needs an SQS client")
		}
		return NewSQSQueue(sqsClient, cfg.SQS.QueueURL), nil
	case config.QueueDriverLmstfy:
		lc := cfg.Lmstfy
		svc := NewLmstfyService(lc.Host, lc.Port, lc.Namespace, lc.Token)
		return NewLmstfyQueue(svc, lc.Queue, time.Duration(lc.TTL)*time.Second), nil
	}
	return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
}
