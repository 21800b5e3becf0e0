// internal/repository/delivery_test.go
package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/models"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

// ==========================
// Create
// ==========================

func TestDeliveryRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sentAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	delivery := &models.NotificationDelivery{
		ID:         "7d9a1f8e-0000-0000-0000-000000000001",
		Title:      "Order shipped",
		TemplateID: 7,
		Recipient:  "user@example.com",
		Status:     models.StatusSent,
		SentAt:     &sentAt,
	}
	values := []models.AttributeValue{
		{AttributeID: 1, ValueString: strPtr("Ada")},
		{AttributeID: 2, ValueNumber: f64Ptr(42)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO notification_deliveries`).
		WithArgs(delivery.ID, delivery.Title, delivery.TemplateID, delivery.Recipient, "SENT", nil, sentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO attribute_values`).
		WithArgs(sqlmock.AnyArg(), delivery.ID, int64(1), "Ada", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO attribute_values`).
		WithArgs(sqlmock.AnyArg(), delivery.ID, int64(2), nil, 42.0, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewDeliveryRepository(db)
	err = repo.Create(context.Background(), delivery, values)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepository_Create_RollsBackOnValueFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	delivery := &models.NotificationDelivery{
		ID:         "7d9a1f8e-0000-0000-0000-000000000002",
		Title:      "Order shipped",
		TemplateID: 7,
		Recipient:  "user@example.com",
		Status:     models.StatusFailed,
		FailReason: strPtr("Sms failed to deliver"),
	}
	values := []models.AttributeValue{{AttributeID: 1, ValueString: strPtr("Ada")}}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO notification_deliveries`).
		WithArgs(delivery.ID, delivery.Title, delivery.TemplateID, delivery.Recipient, "FAILED", "Sms failed to deliver", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO attribute_values`).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	repo := NewDeliveryRepository(db)
	err = repo.Create(context.Background(), delivery, values)

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// GetForProject
// ==========================

func TestDeliveryRepository_GetForProject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sentAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	createdAt := sentAt.Add(-time.Second)
	mock.ExpectQuery(`SELECT d.id, d.title, d.template_id, d.recipient, d.status, d.fail_reason, d.sent_at, d.created_at\s+FROM notification_deliveries d\s+JOIN templates t ON t.id = d.template_id\s+JOIN notifications n ON n.id = t.notification_id\s+WHERE d.id = \$1 AND n.project_id = \$2`).
		WithArgs("7d9a1f8e-0000-0000-0000-000000000001", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "template_id", "recipient", "status", "fail_reason", "sent_at", "created_at"}).
			AddRow("7d9a1f8e-0000-0000-0000-000000000001", "Order shipped", int64(7), "user@example.com", "SENT", nil, sentAt, createdAt))

	repo := NewDeliveryRepository(db)
	d, err := repo.GetForProject(context.Background(), "7d9a1f8e-0000-0000-0000-000000000001", 1)

	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, d.Status)
	assert.Nil(t, d.FailReason)
	require.NotNil(t, d.SentAt)
	assert.True(t, sentAt.Equal(*d.SentAt))
}

func TestDeliveryRepository_GetForProject_OtherTenant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT d.id, d.title`).
		WithArgs("7d9a1f8e-0000-0000-0000-000000000001", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "template_id", "recipient", "status", "fail_reason", "sent_at", "created_at"}))

	repo := NewDeliveryRepository(db)
	_, err = repo.GetForProject(context.Background(), "7d9a1f8e-0000-0000-0000-000000000001", 2)

	nfe := &apperrors.NotFoundError{}
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "Delivery", nfe.Entity)
}

// ==========================
// ListValues
// ==========================

func TestDeliveryRepository_ListValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, notification_delivery_id, attribute_id, value_string, value_number, value_date\s+FROM attribute_values\s+WHERE notification_delivery_id = \$1`).
		WithArgs("7d9a1f8e-0000-0000-0000-000000000001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "notification_delivery_id", "attribute_id", "value_string", "value_number", "value_date"}).
			AddRow("v1", "7d9a1f8e-0000-0000-0000-000000000001", int64(1), "Ada", nil, nil).
			AddRow("v2", "7d9a1f8e-0000-0000-0000-000000000001", int64(2), nil, 42.0, nil).
			AddRow("v3", "7d9a1f8e-0000-0000-0000-000000000001", int64(3), nil, nil, date))

	repo := NewDeliveryRepository(db)
	values, err := repo.ListValues(context.Background(), "7d9a1f8e-0000-0000-0000-000000000001")

	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, "Ada", *values[0].ValueString)
	assert.Equal(t, 42.0, *values[1].ValueNumber)
	assert.True(t, date.Equal(*values[2].ValueDate))
}
