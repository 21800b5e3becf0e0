// internal/repository/template.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/models"
)

type postgresTemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a Postgres-backed TemplateRepository.
func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &postgresTemplateRepository{db: db}
}

func (r *postgresTemplateRepository) GetByNotificationAndChannel(ctx context.Context, notificationID int64, channel models.Channel) (*models.Template, error) {
	query := `SELECT id, notification_id, channel, content
		FROM templates
		WHERE notification_id = $1 AND channel = $2`

	var t models.Template
	err := r.db.QueryRowContext(ctx, query, notificationID, string(channel)).
		Scan(&t.ID, &t.NotificationID, &t.Channel, &t.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Template")
	}
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}
	return &t, nil
}

func (r *postgresTemplateRepository) ListChannels(ctx context.Context, notificationID int64) ([]models.Channel, error) {
	query := `SELECT channel FROM templates WHERE notification_id = $1 ORDER BY channel`

	rows, err := r.db.QueryContext(ctx, query, notificationID)
	if err != nil {
		return nil, fmt.Errorf("listing template channels: %w", err)
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning channel: %w", err)
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

func (r *postgresTemplateRepository) ListAttributes(ctx context.Context, templateID int64) ([]models.Attribute, error) {
	query := `SELECT id, template_id, name, type, is_required
		FROM attributes
		WHERE template_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("listing attributes: %w", err)
	}
	defer rows.Close()

	var attrs []models.Attribute
	for rows.Next() {
		var a models.Attribute
		if err := rows.Scan(&a.ID, &a.TemplateID, &a.Name, &a.Type, &a.IsRequired); err != nil {
			return nil, fmt.Errorf("scanning attribute: %w", err)
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}
