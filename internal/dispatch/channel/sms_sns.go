// internal/dispatch/channel/sms_sns.go
package channel

import (
	"context"

	"notification-service/internal/common/logger"
	"notification-service/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSService is the slice of the SNS client the SMS dispatcher needs.
// Defined here for mocking.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSDispatcher publishes real SMS messages through SNS. Enabled only when
// notifications.sms.provider is set to "sns"; the default build keeps SMS on
// the simulated dispatcher.
type SMSDispatcher struct {
	client   SNSService
	senderID string
	logger   logger.Logger
}

func NewSMSDispatcher(client SNSService, senderID string, log logger.Logger) *SMSDispatcher {
	return &SMSDispatcher{
		client:   client,
		senderID: senderID,
		logger:   log.WithFields(map[string]interface{}{"channel": string(models.ChannelSMS)}),
	}
}

func (d *SMSDispatcher) Dispatch(ctx context.Context, recipient, _, content string) Outcome {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(recipient),
		Message:     aws.String(content),
	}
	if d.senderID != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(d.senderID),
			},
		}
	}

	if _, err := d.client.Publish(ctx, input); err != nil {
		d.logger.Error("sms publish failed", map[string]interface{}{
			"error":     err,
			"recipient": recipient,
		})
		reason := err.Error()
		if reason == "" {
			reason = "Unknown SMS transport error"
		}
		return failed(reason)
	}
	return sent()
}
