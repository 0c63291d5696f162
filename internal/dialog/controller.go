// Package dialog implements the slot-filling conversation that collects a dining request.
package dialog

import (
	"context"
	"encoding/json"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

// Wire names of the supported intents.
const (
	IntentGreeting          = "GreetingIntent"
	IntentThankYou          = "ThankYouIntent"
	IntentDiningSuggestions = "DiningSuggestionsIntent"
)

const (
	AttrRequestData = "requestData"
	AttrMessageID   = "messageId"
)

const (
	msgGreeting = "Hi there, how can I help?"
	msgThankYou = "You are welcome."
	msgAccepted = "Got all the data, You will receive recommendation soon."
)

// State is where the conversation stands after a turn.
type State string

const (
	StateElicitIntent State = "ElicitIntent"
	StateCollecting   State = "Collecting"
	StateDelegated    State = "Delegated"
	StateFulfilling   State = "Fulfilling"
	StateClosed       State = "Closed"
)

// Intent is one of GreetingIntent, ThankYouIntent or DiningSuggestionsIntent.
type Intent interface {
	Name() string
}

type GreetingIntent struct{}

type ThankYouIntent struct{}

type DiningSuggestionsIntent struct {
	Slots  map[string]*string
	Source string
}

func (GreetingIntent) Name() string          { return IntentGreeting }
func (ThankYouIntent) Name() string          { return IntentThankYou }
func (DiningSuggestionsIntent) Name() string { return IntentDiningSuggestions }

// ParseIntent maps the event's intent name onto the closed intent set.
func ParseIntent(ev *models.DialogEvent) (Intent, error) {
	switch ev.CurrentIntent.Name {
	case IntentGreeting:
		return GreetingIntent{}, nil
	case IntentThankYou:
		return ThankYouIntent{}, nil
	case IntentDiningSuggestions:
		slots := ev.CurrentIntent.Slots
		if slots == nil {
			slots = map[string]*string{}
		}
		return DiningSuggestionsIntent{Slots: slots, Source: ev.InvocationSource}, nil
	}
	return nil, apperrors.NewUnsupportedIntentError(ev.CurrentIntent.Name)
}

// Producer hands a validated request to the fulfillment queue.
type Producer interface {
	Enqueue(ctx context.Context, req models.DiningRequest) (string, error)
}

// Turn is the outcome of one conversational turn.
type Turn struct {
	Intent    string
	State     State
	Response  *models.DialogResponse
	MessageID string
}

type Controller struct {
	validator *Validator
	producer  Producer
	sessions  SessionStore
	logger    logger.Logger
}

func NewController(validator *Validator, producer Producer, sessions SessionStore, log logger.Logger) *Controller {
	if sessions == nil {
		sessions = NopSessionStore{}
	}
	return &Controller{
		validator: validator,
		producer:  producer,
		sessions:  sessions,
		logger:    log.WithFields(map[string]interface{}{"component": "dialog"}),
	}
}

// Handle runs one turn: parse the intent, merge stored session attributes, dispatch
// and persist the resulting attributes.
func (c *Controller) Handle(ctx context.Context, ev *models.DialogEvent) (*Turn, error) {
	intent, err := ParseIntent(ev)
	if err != nil {
		return nil, err
	}

	attrs := c.loadSession(ctx, ev)

	turn, err := c.Dispatch(ctx, intent, attrs)
	if err != nil {
		return turn, err
	}

	c.persistSession(ctx, ev.UserID, turn)
	return turn, nil
}

// Dispatch routes the intent to its handler.
func (c *Controller) Dispatch(ctx context.Context, intent Intent, attrs map[string]string) (*Turn, error) {
	switch in := intent.(type) {
	case GreetingIntent:
		return elicitIntent(in, msgGreeting), nil
	case ThankYouIntent:
		return elicitIntent(in, msgThankYou), nil
	case DiningSuggestionsIntent:
		return c.diningSuggestions(ctx, in, attrs)
	}
	return nil, apperrors.NewUnsupportedIntentError(intent.Name())
}

func elicitIntent(intent Intent, content string) *Turn {
	return &Turn{
		Intent: intent.Name(),
		State:  StateElicitIntent,
		Response: &models.DialogResponse{
			DialogAction: models.DialogAction{
				Type:    models.ActionElicitIntent,
				Message: models.PlainText(content),
			},
		},
	}
}

func (c *Controller) diningSuggestions(ctx context.Context, in DiningSuggestionsIntent, attrs map[string]string) (*Turn, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	if data, err := encodeRequestData(in.Slots); err == nil {
		attrs[AttrRequestData] = data
	}

	if in.Source == models.InvocationFulfillmentCodeHook {
		return c.fulfill(ctx, in, attrs)
	}

	res := c.validator.Validate(in.Slots)
	if !res.Valid {
		return c.elicitSlot(in, attrs, res.Field, res.Message), nil
	}

	return &Turn{
		Intent: in.Name(),
		State:  StateDelegated,
		Response: &models.DialogResponse{
			SessionAttributes: attrs,
			DialogAction: models.DialogAction{
				Type:  models.ActionDelegate,
				Slots: in.Slots,
			},
		},
	}, nil
}

// elicitSlot nulls the rejected slot and asks for it again.
func (c *Controller) elicitSlot(in DiningSuggestionsIntent, attrs map[string]string, field, message string) *Turn {
	c.logger.Debug("slot rejected", map[string]interface{}{
		"slot":    field,
		"message": message,
		"source":  in.Source,
	})
	if in.Slots == nil {
		in.Slots = map[string]*string{}
	}
	in.Slots[field] = nil
	return &Turn{
		Intent: in.Name(),
		State:  StateCollecting,
		Response: &models.DialogResponse{
			SessionAttributes: attrs,
			DialogAction: models.DialogAction{
				Type:         models.ActionElicitSlot,
				IntentName:   in.Name(),
				Slots:        in.Slots,
				SlotToElicit: field,
				Message:      models.PlainText(message),
			},
		},
	}
}

func (c *Controller) fulfill(ctx context.Context, in DiningSuggestionsIntent, attrs map[string]string) (*Turn, error) {
	pending := &Turn{Intent: in.Name(), State: StateFulfilling}

	req, err := c.validator.BuildRequest(in.Slots)
	if err != nil {
		// A slot can go stale between turns (a date that was today before midnight).
		se := apperrors.AsStandardError(err)
		if field, ok := se.Metadata["field"].(string); ok && se.Code == apperrors.ErrCodeValidationFailed {
			return c.elicitSlot(in, attrs, field, se.Message), nil
		}
		return pending, err
	}

	messageID, err := c.producer.Enqueue(ctx, req)
	if err != nil {
		return pending, err
	}

	c.logger.Info("dining request enqueued", map[string]interface{}{
		"messageId": messageID,
		"cuisine":   req.Cuisine,
		"location":  req.Location,
	})

	attrs[AttrMessageID] = messageID
	return &Turn{
		Intent:    in.Name(),
		State:     StateClosed,
		MessageID: messageID,
		Response: &models.DialogResponse{
			SessionAttributes: attrs,
			DialogAction: models.DialogAction{
				Type:             models.ActionClose,
				FulfillmentState: models.FulfillmentStateFulfilled,
				Message:          models.PlainText(msgAccepted),
			},
		},
	}, nil
}

// loadSession merges stored attributes under the ones echoed by the front-end.
func (c *Controller) loadSession(ctx context.Context, ev *models.DialogEvent) map[string]string {
	attrs := map[string]string{}
	if ev.UserID != "" {
		stored, err := c.sessions.Load(ctx, ev.UserID)
		if err != nil {
			c.logger.Warn("session load failed", map[string]interface{}{"userId": ev.UserID, "error": err})
		}
		for k, v := range stored {
			attrs[k] = v
		}
	}
	for k, v := range ev.SessionAttributes {
		attrs[k] = v
	}
	return attrs
}

func (c *Controller) persistSession(ctx context.Context, userID string, turn *Turn) {
	if userID == "" || turn.Response == nil {
		return
	}

	var err error
	switch {
	case turn.State == StateClosed:
		err = c.sessions.Delete(ctx, userID)
	case turn.Response.SessionAttributes != nil:
		err = c.sessions.Save(ctx, userID, turn.Response.SessionAttributes)
	}
	if err != nil {
		c.logger.Warn("session persist failed", map[string]interface{}{"userId": userID, "error": err})
	}
}

type requestData struct {
	Cuisine   *string `json:"cuisine"`
	Location  *string `json:"location"`
	PeopleNum *string `json:"peopleNum"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	PhoneNum  *string `json:"phoneNum"`
}

func encodeRequestData(slots map[string]*string) (string, error) {
	data, err := json.Marshal(requestData{
		Cuisine:   slots[models.FieldCuisine],
		Location:  slots[models.FieldLocation],
		PeopleNum: slots[models.FieldPartySize],
		Date:      slots[models.FieldDate],
		Time:      slots[models.FieldTime],
		PhoneNum:  slots[models.FieldPhone],
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
