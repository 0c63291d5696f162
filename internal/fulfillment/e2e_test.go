package fulfillment

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/dialog"
	"dining-concierge/internal/models"
	"dining-concierge/internal/notify"
	"dining-concierge/internal/producer"
	"dining-concierge/internal/search"
	"dining-concierge/internal/selection"
	"dining-concierge/pkg/registry"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type esTransport struct {
	body string
}

func (f *esTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

type capturingSNS struct {
	inputs []*sns.PublishInput
}

func (c *capturingSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	c.inputs = append(c.inputs, params)
	return &sns.PublishOutput{MessageId: aws.String("sns-e2e")}, nil
}

func str(s string) *string { return &s }

func TestEndToEnd_DialogToSMS(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	today := time.Now().In(loc).Format("2006-01-02")

	q := &memQueue{}
	validator := dialog.NewValidator(registry.Default(), loc)
	ctrl := dialog.NewController(validator, producer.New(q, 2*time.Second, log), nil, log)

	slots := map[string]*string{
		models.FieldLocation:  str("manhattan"),
		models.FieldCuisine:   str("korean"),
		models.FieldPartySize: str("4"),
		models.FieldDate:      str(today),
		models.FieldTime:      str("19:30"),
		models.FieldPhone:     str("2125551234"),
	}

	turn, err := ctrl.Handle(ctx, &models.DialogEvent{
		CurrentIntent:    models.CurrentIntent{Name: dialog.IntentDiningSuggestions, Slots: slots},
		InvocationSource: models.InvocationDialogCodeHook,
	})
	require.NoError(t, err)
	require.Equal(t, dialog.StateDelegated, turn.State)

	turn, err = ctrl.Handle(ctx, &models.DialogEvent{
		CurrentIntent:    models.CurrentIntent{Name: dialog.IntentDiningSuggestions, Slots: slots},
		InvocationSource: models.InvocationFulfillmentCodeHook,
	})
	require.NoError(t, err)
	require.Equal(t, dialog.StateClosed, turn.State)
	require.Len(t, q.pending, 1)

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: &esTransport{body: `{"hits":{"hits":[
			{"_source":{"id":"kr-1","categories":[{"alias":"korean","title":"Korean"}]}},
			{"_source":{"id":"kr-2","categories":[{"alias":"korean","title":"Korean"}]}},
			{"_source":{"id":"kr-3","categories":[{"alias":"korean","title":"Korean"}]}},
			{"_source":{"id":"kr-4","categories":[{"alias":"korean","title":"Korean"}]}}
		]}}`},
	})
	require.NoError(t, err)

	snsClient := &capturingSNS{}
	notifier := notify.NewSMSNotifier(&notify.SMSConfig{Enabled: true, CountryCode: "+1", SMSType: "Transactional"}, snsClient, log)

	consumer := NewConsumer(
		createTestConfig(),
		q,
		search.New(esClient, "restaurants", search.DefaultField, search.DefaultSize),
		selection.New(nil, selection.DefaultLimit),
		&MockStore{records: koreanRecords()},
		notifier,
		nil,
		log,
	)

	outcome, err := consumer.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDelivered, outcome)
	assert.Empty(t, q.pending)

	require.Len(t, snsClient.inputs, 1)
	assert.Equal(t, "+12125551234", aws.ToString(snsClient.inputs[0].PhoneNumber))

	msg := aws.ToString(snsClient.inputs[0].Message)
	assert.True(t, strings.HasPrefix(msg, "Hello! Here are my korean restaurant(shop) suggestions for 4 people, for "+today+" at 19:30: 1. "))
	assert.True(t, strings.HasSuffix(msg, ". Enjoy your meal!"))
	assert.Equal(t, 3, strings.Count(msg, ", located at "))

	// queue drained: the next trigger is idle
	outcome, err = consumer.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIdle, outcome)
}
