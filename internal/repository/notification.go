// internal/repository/notification.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/models"
)

type postgresNotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a Postgres-backed NotificationRepository.
func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) GetByID(ctx context.Context, projectID, id int64) (*models.Notification, error) {
	query := `SELECT id, project_id, title, external_id
		FROM notifications
		WHERE project_id = $1 AND id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, projectID, id))
}

func (r *postgresNotificationRepository) GetByExternalID(ctx context.Context, projectID int64, externalID string) (*models.Notification, error) {
	query := `SELECT id, project_id, title, external_id
		FROM notifications
		WHERE project_id = $1 AND external_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, projectID, externalID))
}

func (r *postgresNotificationRepository) scanOne(row *sql.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.ProjectID, &n.Title, &n.ExternalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Notification")
	}
	if err != nil {
		return nil, fmt.Errorf("querying notification: %w", err)
	}
	return &n, nil
}
