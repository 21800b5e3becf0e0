// Package repository contains the Postgres persistence layer. Each repository
// takes the calling project's id where tenant isolation applies; a row owned by
// another project is indistinguishable from a missing row.
package repository

import (
	"context"

	"notification-service/internal/models"
)

// NotificationRepository resolves notifications by either selector.
type NotificationRepository interface {
	GetByID(ctx context.Context, projectID, id int64) (*models.Notification, error)
	GetByExternalID(ctx context.Context, projectID int64, externalID string) (*models.Notification, error)
}

// TemplateRepository reads channel templates and their attribute schemas.
type TemplateRepository interface {
	GetByNotificationAndChannel(ctx context.Context, notificationID int64, channel models.Channel) (*models.Template, error)
	ListChannels(ctx context.Context, notificationID int64) ([]models.Channel, error)
	ListAttributes(ctx context.Context, templateID int64) ([]models.Attribute, error)
}

// DeliveryRepository writes and reads per-recipient delivery records.
// Create persists the delivery row and its attribute values in one transaction.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *models.NotificationDelivery, values []models.AttributeValue) error
	GetForProject(ctx context.Context, deliveryID string, projectID int64) (*models.NotificationDelivery, error)
	ListValues(ctx context.Context, deliveryID string) ([]models.AttributeValue, error)
}

// ProjectResolver maps an API key to its project.
type ProjectResolver interface {
	ResolveAPIKey(ctx context.Context, apiKey string) (*models.Project, error)
}
