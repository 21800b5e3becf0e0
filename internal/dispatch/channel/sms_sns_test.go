// internal/dispatch/channel/sms_sns_test.go
package channel

import (
	"context"
	"errors"
	"testing"

	"notification-service/internal/common/logger"
	"notification-service/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Mocks
// ==========================

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Dispatch
// ==========================

func TestSMSDispatcher_Sent(t *testing.T) {
	var captured *sns.PublishInput
	mock := &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{}, nil
		},
	}
	d := NewSMSDispatcher(mock, "NOTIFY", logger.NewTestLogger(t))

	outcome := d.Dispatch(context.Background(), "+15551234567", "ignored subject", "Your code is 1234")

	assert.Equal(t, models.StatusSent, outcome.Status)
	assert.Equal(t, "+15551234567", *captured.PhoneNumber)
	assert.Equal(t, "Your code is 1234", *captured.Message)
	assert.Equal(t, "NOTIFY", *captured.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
}

func TestSMSDispatcher_NoSenderID(t *testing.T) {
	var captured *sns.PublishInput
	mock := &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{}, nil
		},
	}
	d := NewSMSDispatcher(mock, "", logger.NewTestLogger(t))

	outcome := d.Dispatch(context.Background(), "+15551234567", "", "Body")

	assert.Equal(t, models.StatusSent, outcome.Status)
	assert.Empty(t, captured.MessageAttributes)
}

func TestSMSDispatcher_TransportFailure(t *testing.T) {
	mock := &MockSNSService{
		PublishFunc: func(_ context.Context, _ *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("InvalidParameter: phone number")
		},
	}
	d := NewSMSDispatcher(mock, "", logger.NewTestLogger(t))

	outcome := d.Dispatch(context.Background(), "bad-number", "", "Body")

	assert.Equal(t, models.StatusFailed, outcome.Status)
	assert.Equal(t, "InvalidParameter: phone number", outcome.FailReason)
}
