// internal/dispatch/status.go
package dispatch

import (
	"context"
	"fmt"

	"notification-service/internal/models"
)

// GetNotificationStatus reconstructs one delivery record. Attribute values come
// back typed: strings for TEXT, numbers for NUMBER, timestamps for DATE.
// Attributes that were never supplied are omitted from the map.
func (s *Service) GetNotificationStatus(ctx context.Context, projectID int64, deliveryID string) (*StatusOutput, error) {
	delivery, err := s.deliveries.GetForProject(ctx, deliveryID, projectID)
	if err != nil {
		return nil, err
	}

	attrs, err := s.templates.ListAttributes(ctx, delivery.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("loading attribute schema: %w", err)
	}

	values, err := s.deliveries.ListValues(ctx, delivery.ID)
	if err != nil {
		return nil, fmt.Errorf("loading attribute values: %w", err)
	}

	byAttribute := make(map[int64]models.AttributeValue, len(values))
	for _, v := range values {
		byAttribute[v.AttributeID] = v
	}

	attributes := make(map[string]interface{}, len(values))
	for _, attr := range attrs {
		v, ok := byAttribute[attr.ID]
		if !ok {
			continue
		}
		switch {
		case v.ValueString != nil:
			attributes[attr.Name] = *v.ValueString
		case v.ValueNumber != nil:
			attributes[attr.Name] = *v.ValueNumber
		case v.ValueDate != nil:
			attributes[attr.Name] = *v.ValueDate
		}
	}

	return &StatusOutput{
		Title:      delivery.Title,
		Status:     string(delivery.Status),
		Recipient:  delivery.Recipient,
		SentAt:     delivery.SentAt,
		FailReason: delivery.FailReason,
		Attributes: attributes,
	}, nil
}
