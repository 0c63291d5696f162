// Package fulfillment turns one queued dining request into a delivered recommendation.
package fulfillment

import (
	"context"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/common/observability"
	"dining-concierge/internal/compose"
	"dining-concierge/internal/models"
	"dining-concierge/internal/queue"
	"dining-concierge/internal/selection"
	"dining-concierge/internal/store"

	"go.opentelemetry.io/otel/attribute"
)

// Outcome is how a successful run ended.
type Outcome string

const (
	OutcomeIdle      Outcome = "idle"
	OutcomeNoMatch   Outcome = "no_match"
	OutcomeDelivered Outcome = "delivered"

	outcomeFailed = "failed"
)

type Searcher interface {
	Candidates(ctx context.Context, cuisine string) ([]models.Candidate, error)
}

type Notifier interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Config struct {
	VisibilityTimeout time.Duration
	WaitTime          time.Duration
}

// Report describes a finished run.
type Report struct {
	Outcome        Outcome
	MessageID      string
	NotificationID string
	RestaurantIDs  []string
	Request        *models.DiningRequest
	// Notice explains a non-delivered outcome that still counts as success.
	Notice *apperrors.StandardError
}

type Consumer struct {
	config   *Config
	queue    queue.Queue
	search   Searcher
	selector *selection.Selector
	store    store.Store
	notifier Notifier
	obs      *observability.Observability
	logger   logger.Logger
}

func NewConsumer(
	config *Config,
	q queue.Queue,
	search Searcher,
	selector *selection.Selector,
	st store.Store,
	notifier Notifier,
	obs *observability.Observability,
	log logger.Logger,
) *Consumer {
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Consumer{
		config:   config,
		queue:    q,
		search:   search,
		selector: selector,
		store:    st,
		notifier: notifier,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "fulfillment"}),
	}
}

// RunOnce processes at most one queued request.
func (c *Consumer) RunOnce(ctx context.Context) (Outcome, error) {
	report, err := c.Run(ctx)
	if err != nil {
		return "", err
	}
	return report.Outcome, nil
}

// Run is RunOnce with the details of what was delivered.
func (c *Consumer) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	metrics.FulfillmentActive.Inc()
	defer metrics.FulfillmentActive.Dec()

	ctx, span := c.obs.StartSpan(ctx, "fulfillment.run")
	report, err := c.run(ctx)
	observability.EndSpan(span, err)

	if err != nil {
		code := apperrors.CodeOf(err)
		metrics.FulfillmentFailures.WithLabelValues(string(code)).Inc()
		c.obs.RecordRun(ctx, outcomeFailed, time.Since(start))
		c.logger.Error("fulfillment run failed", map[string]interface{}{
			"errorCode": string(code),
			"error":     err,
		})
		return nil, err
	}

	metrics.FulfillmentRuns.WithLabelValues(string(report.Outcome)).Inc()
	c.obs.RecordRun(ctx, string(report.Outcome), time.Since(start))
	if report.Outcome != OutcomeIdle {
		fields := map[string]interface{}{
			"outcome":        string(report.Outcome),
			"messageId":      report.MessageID,
			"notificationId": report.NotificationID,
			"restaurantIds":  report.RestaurantIDs,
			"durationMs":     time.Since(start).Milliseconds(),
		}
		if report.Notice != nil {
			fields["errorCode"] = string(report.Notice.Code)
			fields["details"] = report.Notice.Details
		}
		c.logger.Info("fulfillment run finished", fields)
	}
	return report, nil
}

func (c *Consumer) run(ctx context.Context) (*Report, error) {
	env, err := step(ctx, c, "receive", func(ctx context.Context) (*queue.Envelope, error) {
		return c.queue.Receive(ctx, queue.ReceiveOptions{
			VisibilityTimeout: c.config.VisibilityTimeout,
			WaitTime:          c.config.WaitTime,
		})
	})
	if err != nil {
		return nil, err
	}
	if env == nil {
		return &Report{Outcome: OutcomeIdle}, nil
	}

	report := &Report{MessageID: env.MessageID}

	req, decodeErr := queue.DecodeRequest(env)
	if _, err := step(ctx, c, "delete", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.queue.Delete(ctx, env.ReceiptHandle)
	}); err != nil {
		if decodeErr == nil {
			return nil, err
		}
		c.logger.Warn("could not delete undecodable message", map[string]interface{}{
			"messageId": env.MessageID,
			"error":     err,
		})
	}
	if decodeErr != nil {
		return nil, apperrors.NewInvalidEnvelopeError(decodeErr)
	}
	report.Request = &req

	candidates, err := step(ctx, c, "search", func(ctx context.Context) ([]models.Candidate, error) {
		return c.search.Candidates(ctx, req.Cuisine)
	})
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		id, err := c.deliver(ctx, req.Phone, compose.NoAvailability(req.Cuisine, req.Location))
		if err != nil {
			return nil, err
		}
		report.Outcome = OutcomeNoMatch
		report.NotificationID = id
		report.Notice = apperrors.NewNoCandidatesError(req.Cuisine)
		return report, nil
	}

	picks := c.selector.Select(candidates)

	records, err := step(ctx, c, "lookup", func(ctx context.Context) ([]*models.RestaurantRecord, error) {
		out := make([]*models.RestaurantRecord, 0, len(picks))
		for _, p := range picks {
			rec, err := c.store.Get(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	id, err := c.deliver(ctx, req.Phone, compose.Suggestions(req, records))
	if err != nil {
		return nil, err
	}

	report.Outcome = OutcomeDelivered
	report.NotificationID = id
	for _, p := range picks {
		report.RestaurantIDs = append(report.RestaurantIDs, p.ID)
	}
	return report, nil
}

func (c *Consumer) deliver(ctx context.Context, phone, message string) (string, error) {
	return step(ctx, c, "deliver", func(ctx context.Context) (string, error) {
		return c.notifier.SendSMS(ctx, phone, message)
	})
}

// step wraps fn in a child span and a duration observation.
func step[T any](ctx context.Context, c *Consumer, name string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	ctx, span := c.obs.StartSpan(ctx, "fulfillment."+name, attribute.String("step", name))
	out, err := fn(ctx)
	observability.EndSpan(span, err)
	metrics.FulfillmentStepDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return out, err
}
