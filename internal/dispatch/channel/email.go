// internal/dispatch/channel/email.go
package channel

import (
	"context"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/common/logger"
	"notification-service/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the slice of the SES client the email dispatcher needs.
// Defined here for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailDispatcher performs real outbound sends through SES. Transport failures
// are recovered into a FAILED outcome carrying the transport's message.
type EmailDispatcher struct {
	client SESService
	from   string
	logger logger.Logger
}

func NewEmailDispatcher(client SESService, from string, log logger.Logger) *EmailDispatcher {
	return &EmailDispatcher{
		client: client,
		from:   from,
		logger: log.WithFields(map[string]interface{}{"channel": string(models.ChannelEmail)}),
	}
}

func (d *EmailDispatcher) Dispatch(ctx context.Context, recipient, subject, content string) Outcome {
	_, err := d.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(content)},
				Html: &types.Content{Data: aws.String(content)},
			},
		},
		Source: aws.String(d.from),
	})
	if err != nil {
		d.logger.Error("email send failed", map[string]interface{}{
			"error":     err,
			"recipient": recipient,
		})
		return failed(apperrors.NewTransportError(err).Reason())
	}
	return sent()
}
