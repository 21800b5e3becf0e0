// internal/dispatch/status_test.go
package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/common/logger"
	"notification-service/internal/dispatch/channel"
	"notification-service/internal/models"
)

func statusFixture(t *testing.T, deliveries *MockDeliveryRepository) *Service {
	templates := &MockTemplateRepository{
		ListAttributesFunc: func(_ context.Context, _ int64) ([]models.Attribute, error) {
			return []models.Attribute{
				{ID: 1, TemplateID: 7, Name: "customerName", Type: models.AttributeText, IsRequired: true},
				{ID: 2, TemplateID: 7, Name: "orderNumber", Type: models.AttributeNumber, IsRequired: true},
				{ID: 3, TemplateID: 7, Name: "deliveredAt", Type: models.AttributeDate, IsRequired: false},
			}, nil
		},
	}
	return NewService(nil, templates, deliveries, channel.Registry{}, logger.NewTestLogger(t))
}

// ==========================
// GetNotificationStatus
// ==========================

func TestGetNotificationStatus_TypedAttributes(t *testing.T) {
	sentAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	deliveries := &MockDeliveryRepository{
		GetForProjectFunc: func(_ context.Context, deliveryID string, projectID int64) (*models.NotificationDelivery, error) {
			return &models.NotificationDelivery{
				ID:         deliveryID,
				Title:      "Order shipped",
				TemplateID: 7,
				Recipient:  "user@example.com",
				Status:     models.StatusSent,
				SentAt:     &sentAt,
			}, nil
		},
		ListValuesFunc: func(_ context.Context, deliveryID string) ([]models.AttributeValue, error) {
			return []models.AttributeValue{
				{ID: "v1", NotificationDeliveryID: deliveryID, AttributeID: 1, ValueString: str("Ada")},
				{ID: "v2", NotificationDeliveryID: deliveryID, AttributeID: 2, ValueNumber: func() *float64 { f := 9001.0; return &f }()},
				{ID: "v3", NotificationDeliveryID: deliveryID, AttributeID: 3, ValueDate: &date},
			}, nil
		},
	}
	svc := statusFixture(t, deliveries)

	out, err := svc.GetNotificationStatus(context.Background(), 1, "d-1")

	require.NoError(t, err)
	assert.Equal(t, "Order shipped", out.Title)
	assert.Equal(t, "SENT", out.Status)
	assert.Equal(t, "user@example.com", out.Recipient)
	require.NotNil(t, out.SentAt)
	assert.True(t, sentAt.Equal(*out.SentAt))
	assert.Nil(t, out.FailReason)

	assert.Equal(t, "Ada", out.Attributes["customerName"])
	assert.Equal(t, 9001.0, out.Attributes["orderNumber"])
	assert.Equal(t, date, out.Attributes["deliveredAt"])
}

func TestGetNotificationStatus_OmitsUnsuppliedAttributes(t *testing.T) {
	deliveries := &MockDeliveryRepository{
		GetForProjectFunc: func(_ context.Context, deliveryID string, _ int64) (*models.NotificationDelivery, error) {
			reason := "Email failed to deliver"
			return &models.NotificationDelivery{
				ID:         deliveryID,
				Title:      "Order shipped",
				TemplateID: 7,
				Recipient:  "user@example.com",
				Status:     models.StatusFailed,
				FailReason: &reason,
			}, nil
		},
		ListValuesFunc: func(_ context.Context, deliveryID string) ([]models.AttributeValue, error) {
			return []models.AttributeValue{
				{ID: "v1", NotificationDeliveryID: deliveryID, AttributeID: 1, ValueString: str("Ada")},
			}, nil
		},
	}
	svc := statusFixture(t, deliveries)

	out, err := svc.GetNotificationStatus(context.Background(), 1, "d-1")

	require.NoError(t, err)
	assert.Equal(t, "FAILED", out.Status)
	assert.Nil(t, out.SentAt)
	require.NotNil(t, out.FailReason)
	assert.Equal(t, "Email failed to deliver", *out.FailReason)

	assert.Len(t, out.Attributes, 1)
	_, present := out.Attributes["deliveredAt"]
	assert.False(t, present)
	_, present = out.Attributes["orderNumber"]
	assert.False(t, present)
}

func TestGetNotificationStatus_NotFound(t *testing.T) {
	deliveries := &MockDeliveryRepository{
		GetForProjectFunc: func(_ context.Context, _ string, _ int64) (*models.NotificationDelivery, error) {
			return nil, apperrors.NewNotFoundError("Delivery")
		},
	}
	svc := statusFixture(t, deliveries)

	_, err := svc.GetNotificationStatus(context.Background(), 1, "d-unknown")

	nfe := &apperrors.NotFoundError{}
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "Delivery", nfe.Entity)
}
