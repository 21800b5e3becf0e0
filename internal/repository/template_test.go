// internal/repository/template_test.go
package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/models"
)

// ==========================
// GetByNotificationAndChannel
// ==========================

func TestTemplateRepository_GetByNotificationAndChannel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, notification_id, channel, content\s+FROM templates\s+WHERE notification_id = \$1 AND channel = \$2`).
		WithArgs(int64(42), "EMAIL").
		WillReturnRows(sqlmock.NewRows([]string{"id", "notification_id", "channel", "content"}).
			AddRow(int64(7), int64(42), "EMAIL", "Hi {{customerName}}"))

	repo := NewTemplateRepository(db)
	tmpl, err := repo.GetByNotificationAndChannel(context.Background(), 42, models.ChannelEmail)

	require.NoError(t, err)
	assert.Equal(t, int64(7), tmpl.ID)
	assert.Equal(t, models.ChannelEmail, tmpl.Channel)
	assert.Equal(t, "Hi {{customerName}}", tmpl.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_GetByNotificationAndChannel_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, notification_id, channel, content`).
		WithArgs(int64(42), "PUSH").
		WillReturnRows(sqlmock.NewRows([]string{"id", "notification_id", "channel", "content"}))

	repo := NewTemplateRepository(db)
	_, err = repo.GetByNotificationAndChannel(context.Background(), 42, models.ChannelPush)

	nfe := &apperrors.NotFoundError{}
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "Template", nfe.Entity)
}

// ==========================
// ListChannels
// ==========================

func TestTemplateRepository_ListChannels(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT channel FROM templates WHERE notification_id = \$1 ORDER BY channel`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"channel"}).
			AddRow("EMAIL").
			AddRow("SMS"))

	repo := NewTemplateRepository(db)
	channels, err := repo.ListChannels(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, []models.Channel{models.ChannelEmail, models.ChannelSMS}, channels)
}

func TestTemplateRepository_ListChannels_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT channel FROM templates`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"channel"}))

	repo := NewTemplateRepository(db)
	channels, err := repo.ListChannels(context.Background(), 42)

	require.NoError(t, err)
	assert.Empty(t, channels)
}

// ==========================
// ListAttributes
// ==========================

func TestTemplateRepository_ListAttributes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, template_id, name, type, is_required\s+FROM attributes\s+WHERE template_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "template_id", "name", "type", "is_required"}).
			AddRow(int64(1), int64(7), "customerName", "TEXT", true).
			AddRow(int64(2), int64(7), "orderNumber", "NUMBER", true).
			AddRow(int64(3), int64(7), "deliveredAt", "DATE", false))

	repo := NewTemplateRepository(db)
	attrs, err := repo.ListAttributes(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, attrs, 3)
	assert.Equal(t, "customerName", attrs[0].Name)
	assert.Equal(t, models.AttributeText, attrs[0].Type)
	assert.True(t, attrs[0].IsRequired)
	assert.Equal(t, models.AttributeDate, attrs[2].Type)
	assert.False(t, attrs[2].IsRequired)
}
