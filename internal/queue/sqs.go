package queue

import (
	"context"
	"time"

	apperrors "dining-concierge/internal/common/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSService is the subset of the SQS client used here; kept narrow for mocking.
type SQSService interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SQSQueue struct {
	client   SQSService
	queueURL string
}

func NewSQSQueue(client SQSService, queueURL string) *SQSQueue {
	return &SQSQueue{client: client, queueURL: queueURL}
}

func (q *SQSQueue) Send(ctx context.Context, msg Message) (string, error) {
	attrs := make(map[string]types.MessageAttributeValue, len(msg.Attributes))
	for name, a := range msg.Attributes {
		attrs[name] = types.MessageAttributeValue{
			DataType:    aws.String(a.DataType),
			StringValue: aws.String(a.StringValue),
		}
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(q.queueURL),
		MessageBody:       aws.String(msg.Body),
		DelaySeconds:      int32(msg.Delay / time.Second),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", apperrors.NewQueueUnavailableError("send", err)
	}
	return aws.ToString(out.MessageId), nil
}

func (q *SQSQueue) Receive(ctx context.Context, opts ReceiveOptions) (*Envelope, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(q.queueURL),
		MaxNumberOfMessages:   1,
		VisibilityTimeout:     int32(opts.VisibilityTimeout / time.Second),
		WaitTimeSeconds:       int32(opts.WaitTime / time.Second),
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return nil, apperrors.NewQueueUnavailableError("receive", err)
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}

	m := out.Messages[0]
	env := &Envelope{
		MessageID:     aws.ToString(m.MessageId),
		ReceiptHandle: aws.ToString(m.ReceiptHandle),
		Body:          aws.ToString(m.Body),
		Attributes:    make(map[string]Attribute, len(m.MessageAttributes)),
	}
	for name, a := range m.MessageAttributes {
		env.Attributes[name] = Attribute{
			DataType:    aws.ToString(a.DataType),
			StringValue: aws.ToString(a.StringValue),
		}
	}
	return env, nil
}

func (q *SQSQueue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return apperrors.NewQueueUnavailableError("delete", err)
	}
	return nil
}
