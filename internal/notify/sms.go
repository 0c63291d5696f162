// Package notify delivers the recommendation text to the user.
package notify

import (
	"context"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
)

const channelSMS = "sms"

// SNSService is the subset of the SNS client used here; kept narrow for mocking.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SMSConfig struct {
	Enabled     bool
	CountryCode string
	SMSType     string
	SenderID    string
}

type SMSNotifier struct {
	config *SMSConfig
	client SNSService
	logger logger.Logger
}

func NewSMSNotifier(config *SMSConfig, client SNSService, log logger.Logger) *SMSNotifier {
	return &SMSNotifier{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"channel": channelSMS}),
	}
}

// SendSMS publishes message to the country code plus phone. When the channel is
// disabled nothing is sent and a local id is returned.
func (n *SMSNotifier) SendSMS(ctx context.Context, phone, message string) (string, error) {
	destination := n.config.CountryCode + phone

	if !n.config.Enabled {
		id := "local-" + uuid.New().String()
		n.logger.Info("sms disabled, skipping send", map[string]interface{}{
			"destination": destination,
			"messageId":   id,
			"length":      len(message),
		})
		return id, nil
	}

	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String(n.config.SMSType),
		},
	}
	if n.config.SenderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(n.config.SenderID),
		}
	}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(destination),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", apperrors.NewNotificationSendFailedError(channelSMS, err)
	}

	id := aws.ToString(out.MessageId)
	n.logger.Info("sms sent", map[string]interface{}{"messageId": id})
	return id, nil
}
