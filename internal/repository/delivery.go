// internal/repository/delivery.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/models"

	"github.com/google/uuid"
)

type postgresDeliveryRepository struct {
	db *sql.DB
}

// NewDeliveryRepository creates a Postgres-backed DeliveryRepository.
func NewDeliveryRepository(db *sql.DB) DeliveryRepository {
	return &postgresDeliveryRepository{db: db}
}

// Create inserts the delivery row and its attribute values atomically. Each
// value row gets a fresh id; its delivery id is overwritten with the parent's.
func (r *postgresDeliveryRepository) Create(ctx context.Context, delivery *models.NotificationDelivery, values []models.AttributeValue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delivery transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO notification_deliveries (id, title, template_id, recipient, status, fail_reason, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		delivery.ID, delivery.Title, delivery.TemplateID, delivery.Recipient,
		string(delivery.Status), delivery.FailReason, delivery.SentAt)
	if err != nil {
		return fmt.Errorf("inserting delivery: %w", err)
	}

	for i := range values {
		v := &values[i]
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		v.NotificationDeliveryID = delivery.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attribute_values (id, notification_delivery_id, attribute_id, value_string, value_number, value_date)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			v.ID, v.NotificationDeliveryID, v.AttributeID, v.ValueString, v.ValueNumber, v.ValueDate)
		if err != nil {
			return fmt.Errorf("inserting attribute value: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delivery: %w", err)
	}
	return nil
}

// GetForProject fetches a delivery only if it belongs to the given project,
// walking delivery -> template -> notification for the ownership check.
func (r *postgresDeliveryRepository) GetForProject(ctx context.Context, deliveryID string, projectID int64) (*models.NotificationDelivery, error) {
	query := `SELECT d.id, d.title, d.template_id, d.recipient, d.status, d.fail_reason, d.sent_at, d.created_at
		FROM notification_deliveries d
		JOIN templates t ON t.id = d.template_id
		JOIN notifications n ON n.id = t.notification_id
		WHERE d.id = $1 AND n.project_id = $2`

	var d models.NotificationDelivery
	err := r.db.QueryRowContext(ctx, query, deliveryID, projectID).
		Scan(&d.ID, &d.Title, &d.TemplateID, &d.Recipient, &d.Status, &d.FailReason, &d.SentAt, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Delivery")
	}
	if err != nil {
		return nil, fmt.Errorf("querying delivery: %w", err)
	}
	return &d, nil
}

func (r *postgresDeliveryRepository) ListValues(ctx context.Context, deliveryID string) ([]models.AttributeValue, error) {
	query := `SELECT id, notification_delivery_id, attribute_id, value_string, value_number, value_date
		FROM attribute_values
		WHERE notification_delivery_id = $1`

	rows, err := r.db.QueryContext(ctx, query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("listing attribute values: %w", err)
	}
	defer rows.Close()

	var values []models.AttributeValue
	for rows.Next() {
		var v models.AttributeValue
		if err := rows.Scan(&v.ID, &v.NotificationDeliveryID, &v.AttributeID, &v.ValueString, &v.ValueNumber, &v.ValueDate); err != nil {
			return nil, fmt.Errorf("scanning attribute value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
