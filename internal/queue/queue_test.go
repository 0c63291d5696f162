// internal/queue/queue_test.go
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Services
// ==========================

type MockSQSService struct {
	SendMessageFunc    func(ctx context.Context, params *sqs.SendMessageInput) (*sqs.SendMessageOutput, error)
	ReceiveMessageFunc func(ctx context.Context, params *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageFunc  func(ctx context.Context, params *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
}

func (m *MockSQSService) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	return m.SendMessageFunc(ctx, params)
}

func (m *MockSQSService) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return m.ReceiveMessageFunc(ctx, params)
}

func (m *MockSQSService) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	return m.DeleteMessageFunc(ctx, params)
}

type MockLmstfyService struct {
	jobs  []*client.Job
	acked []string
	ttrs  []uint32
	err   error
}

func (m *MockLmstfyService) Publish(queue string, data []byte, ttlSecond uint32, tries uint16, delaySecond uint32) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	id := "job-" + string(rune('a'+len(m.jobs)))
	m.jobs = append(m.jobs, &client.Job{Queue: queue, ID: id, Data: data})
	return id, nil
}

func (m *MockLmstfyService) Consume(queue string, ttrSecond, timeoutSecond uint32) (*client.Job, error) {
	m.ttrs = append(m.ttrs, ttrSecond)
	if m.err != nil {
		return nil, m.err
	}
	if ttrSecond == 0 {
		return nil, errors.New("lmstfy consume failed: invalid ttr")
	}
	if len(m.jobs) == 0 {
		return nil, nil
	}
	job := m.jobs[0]
	m.jobs = m.jobs[1:]
	return job, nil
}

func (m *MockLmstfyService) Ack(queue, jobID string) error {
	m.acked = append(m.acked, jobID)
	return m.err
}

// ==========================
// Test Helper Functions
// ==========================

func sampleRequest() models.DiningRequest {
	return models.DiningRequest{
		Location:  "manhattan",
		Cuisine:   "korean",
		PartySize: 4,
		Date:      "2026-10-19",
		Time:      "19:30",
		Phone:     "2125551234",
	}
}

// ==========================
// Envelope codec
// ==========================

func TestEncodeRequest(t *testing.T) {
	msg := EncodeRequest(sampleRequest(), 2*time.Second)

	assert.Equal(t, "Slots for the Restaurant", msg.Body)
	assert.Equal(t, 2*time.Second, msg.Delay)
	assert.Equal(t, map[string]Attribute{
		"Cuisine":    {DataType: "String", StringValue: "korean"},
		"Location":   {DataType: "String", StringValue: "manhattan"},
		"DiningTime": {DataType: "String", StringValue: "19:30"},
		"DiningDate": {DataType: "String", StringValue: "2026-10-19"},
		"PeopleNum":  {DataType: "Number", StringValue: "4"},
		"PhoneNum":   {DataType: "String", StringValue: "2125551234"},
	}, msg.Attributes)
}

func TestDecodeRequest(t *testing.T) {
	msg := EncodeRequest(sampleRequest(), 0)

	req, err := DecodeRequest(&Envelope{Attributes: msg.Attributes})
	require.NoError(t, err)
	assert.Equal(t, sampleRequest(), req)
}

func TestDecodeRequest_Errors(t *testing.T) {
	t.Run("missing attribute", func(t *testing.T) {
		attrs := EncodeRequest(sampleRequest(), 0).Attributes
		delete(attrs, AttrPhoneNum)

		_, err := DecodeRequest(&Envelope{Attributes: attrs})
		assert.ErrorIs(t, err, ErrMissingAttribute)
	})

	t.Run("non numeric people", func(t *testing.T) {
		attrs := EncodeRequest(sampleRequest(), 0).Attributes
		attrs[AttrPeopleNum] = Attribute{DataType: DataTypeNumber, StringValue: "many"}

		_, err := DecodeRequest(&Envelope{Attributes: attrs})
		assert.Error(t, err)
	})

	t.Run("no attributes", func(t *testing.T) {
		_, err := DecodeRequest(&Envelope{})
		assert.ErrorIs(t, err, ErrMissingAttribute)
	})
}

// ==========================
// SQS backend
// ==========================

func TestSQSQueue_Send(t *testing.T) {
	var captured *sqs.SendMessageInput
	mock := &MockSQSService{
		SendMessageFunc: func(ctx context.Context, params *sqs.SendMessageInput) (*sqs.SendMessageOutput, error) {
			captured = params
			return &sqs.SendMessageOutput{MessageId: aws.String("sqs-msg-1")}, nil
		},
	}
	q := NewSQSQueue(mock, "https://sqs.us-east-1.amazonaws.com/123/restaurantQueue")

	id, err := q.Send(context.Background(), EncodeRequest(sampleRequest(), 2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "sqs-msg-1", id)

	require.NotNil(t, captured)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/123/restaurantQueue", aws.ToString(captured.QueueUrl))
	assert.Equal(t, "Slots for the Restaurant", aws.ToString(captured.MessageBody))
	assert.Equal(t, int32(2), captured.DelaySeconds)
	assert.Len(t, captured.MessageAttributes, 6)
	assert.Equal(t, "Number", aws.ToString(captured.MessageAttributes["PeopleNum"].DataType))
	assert.Equal(t, "4", aws.ToString(captured.MessageAttributes["PeopleNum"].StringValue))
}

func TestSQSQueue_SendFailure(t *testing.T) {
	mock := &MockSQSService{
		SendMessageFunc: func(ctx context.Context, params *sqs.SendMessageInput) (*sqs.SendMessageOutput, error) {
			return nil, errors.New("AccessDenied")
		},
	}
	q := NewSQSQueue(mock, "url")

	_, err := q.Send(context.Background(), EncodeRequest(sampleRequest(), 0))
	assert.ErrorIs(t, err, apperrors.ErrQueueUnavailable)
}

func TestSQSQueue_Receive(t *testing.T) {
	var captured *sqs.ReceiveMessageInput
	mock := &MockSQSService{
		ReceiveMessageFunc: func(ctx context.Context, params *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
			captured = params
			return &sqs.ReceiveMessageOutput{Messages: []types.Message{{
				MessageId:     aws.String("m-1"),
				ReceiptHandle: aws.String("rh-1"),
				Body:          aws.String(RequestBody),
				MessageAttributes: map[string]types.MessageAttributeValue{
					"Cuisine": {DataType: aws.String("String"), StringValue: aws.String("korean")},
				},
			}}}, nil
		},
	}
	q := NewSQSQueue(mock, "url")

	env, err := q.Receive(context.Background(), ReceiveOptions{VisibilityTimeout: 30 * time.Second})
	require.NoError(t, err)
	require.NotNil(t, env)

	assert.Equal(t, "m-1", env.MessageID)
	assert.Equal(t, "rh-1", env.ReceiptHandle)
	assert.Equal(t, "korean", env.Attributes["Cuisine"].StringValue)

	assert.Equal(t, int32(1), captured.MaxNumberOfMessages)
	assert.Equal(t, int32(30), captured.VisibilityTimeout)
	assert.Equal(t, int32(0), captured.WaitTimeSeconds)
	assert.Equal(t, []string{"All"}, captured.MessageAttributeNames)
}

func TestSQSQueue_ReceiveEmpty(t *testing.T) {
	mock := &MockSQSService{
		ReceiveMessageFunc: func(ctx context.Context, params *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
			return &sqs.ReceiveMessageOutput{}, nil
		},
	}

	env, err := NewSQSQueue(mock, "url").Receive(context.Background(), ReceiveOptions{})
	require.NoError(t, err)
	assert.Nil(t, env)
}

func TestSQSQueue_Delete(t *testing.T) {
	var handle string
	mock := &MockSQSService{
		DeleteMessageFunc: func(ctx context.Context, params *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
			handle = aws.ToString(params.ReceiptHandle)
			return &sqs.DeleteMessageOutput{}, nil
		},
	}

	require.NoError(t, NewSQSQueue(mock, "url").Delete(context.Background(), "rh-9"))
	assert.Equal(t, "rh-9", handle)
}

// ==========================
// lmstfy backend
// ==========================

func TestLmstfyQueue_RoundTrip(t *testing.T) {
	mock := &MockLmstfyService{}
	q := NewLmstfyQueue(mock, "restaurantQueue", 24*time.Hour)
	ctx := context.Background()

	id, err := q.Send(ctx, EncodeRequest(sampleRequest(), 2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "job-a", id)

	env, err := q.Receive(ctx, ReceiveOptions{})
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.Equal(t, "job-a", env.MessageID)
	assert.Equal(t, RequestBody, env.Body)

	req, err := DecodeRequest(env)
	require.NoError(t, err)
	assert.Equal(t, sampleRequest(), req)

	require.NoError(t, q.Delete(ctx, env.ReceiptHandle))
	assert.Equal(t, []string{"job-a"}, mock.acked)

	env, err = q.Receive(ctx, ReceiveOptions{})
	require.NoError(t, err)
	assert.Nil(t, env)
}

func TestLmstfyQueue_ReceiveTTR(t *testing.T) {
	mock := &MockLmstfyService{}
	q := NewLmstfyQueue(mock, "restaurantQueue", time.Hour)
	ctx := context.Background()

	_, err := q.Send(ctx, EncodeRequest(sampleRequest(), 0))
	require.NoError(t, err)

	env, err := q.Receive(ctx, ReceiveOptions{VisibilityTimeout: 0, WaitTime: 0})
	require.NoError(t, err)
	require.NotNil(t, env)

	_, err = q.Receive(ctx, ReceiveOptions{VisibilityTimeout: 30 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, []uint32{1, 30}, mock.ttrs)
}

func TestLmstfyQueue_GarbledPayload(t *testing.T) {
	mock := &MockLmstfyService{jobs: []*client.Job{{ID: "job-x", Data: []byte("not json")}}}
	q := NewLmstfyQueue(mock, "restaurantQueue", time.Hour)

	env, err := q.Receive(context.Background(), ReceiveOptions{})
	require.NoError(t, err)
	require.NotNil(t, env)

	_, err = DecodeRequest(env)
	assert.ErrorIs(t, err, ErrMissingAttribute)
}

func TestLmstfyQueue_Unavailable(t *testing.T) {
	mock := &MockLmstfyService{err: errors.New("dial tcp: connection refused")}
	q := NewLmstfyQueue(mock, "restaurantQueue", time.Hour)

	_, err := q.Send(context.Background(), EncodeRequest(sampleRequest(), 0))
	assert.ErrorIs(t, err, apperrors.ErrQueueUnavailable)

	_, err = q.Receive(context.Background(), ReceiveOptions{})
	assert.ErrorIs(t, err, apperrors.ErrQueueUnavailable)
}

func TestMessage_JSONOmitsDelay(t *testing.T) {
	data, err := json.Marshal(EncodeRequest(sampleRequest(), 5*time.Second))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Delay")
}
