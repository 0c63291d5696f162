// Package queue moves dining requests from the dialog hook to the fulfillment worker.
package queue

import (
	"context"
	"time"
)

// Attribute data types.
const (
	DataTypeString = "String"
	DataTypeNumber = "Number"
)

// Attribute is one typed message attribute.
type Attribute struct {
	DataType    string `json:"dataType"`
	StringValue string `json:"stringValue"`
}

// Message is what a producer sends.
type Message struct {
	Body       string               `json:"body"`
	Attributes map[string]Attribute `json:"attributes"`
	Delay      time.Duration        `json:"-"`
}

// Envelope is a received message plus the handle needed to delete it.
type Envelope struct {
	MessageID     string
	ReceiptHandle string
	Body          string
	Attributes    map[string]Attribute
}

// ReceiveOptions control a single receive call.
type ReceiveOptions struct {
	VisibilityTimeout time.Duration
	WaitTime          time.Duration
}

// Queue is the contract shared by every backend. Receive returns a nil
// Envelope when the queue is empty.
type Queue interface {
	Send(ctx context.Context, msg Message) (string, error)
	Receive(ctx context.Context, opts ReceiveOptions) (*Envelope, error)
	Delete(ctx context.Context, receiptHandle string) error
}
