// internal/dispatch/service.go
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/common/logger"
	"notification-service/internal/common/metrics"
	"notification-service/internal/dispatch/channel"
	"notification-service/internal/dispatch/render"
	"notification-service/internal/dispatch/validator"
	"notification-service/internal/models"
	"notification-service/internal/repository"

	"github.com/google/uuid"
)

// Service orchestrates the dispatch pipeline: resolve notification, pick the
// channel template, validate attributes, render once, fan out per recipient,
// and persist one delivery record each.
type Service struct {
	notifications repository.NotificationRepository
	templates     repository.TemplateRepository
	deliveries    repository.DeliveryRepository
	dispatchers   channel.Registry
	logger        logger.Logger
}

func NewService(
	notifications repository.NotificationRepository,
	templates repository.TemplateRepository,
	deliveries repository.DeliveryRepository,
	dispatchers channel.Registry,
	log logger.Logger,
) *Service {
	return &Service{
		notifications: notifications,
		templates:     templates,
		deliveries:    deliveries,
		dispatchers:   dispatchers,
		logger:        log,
	}
}

// SendNotification runs the full pipeline for one request. Per-recipient
// transport failures become FAILED rows, not errors; only infrastructure
// failures (DB, missing dispatcher) return an error.
func (s *Service) SendNotification(ctx context.Context, projectID int64, input SendInput) (*SendOutput, error) {
	notif, err := s.resolveNotification(ctx, projectID, input)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.resolveTemplate(ctx, notif.ID, input.Channel)
	if err != nil {
		return nil, err
	}

	attrs, err := s.templates.ListAttributes(ctx, tmpl.ID)
	if err != nil {
		return nil, fmt.Errorf("loading attribute schema: %w", err)
	}

	values, err := validator.Build(attrs).Validate(input.Attributes)
	if err != nil {
		return nil, err
	}

	// rendered once; every recipient gets identical content
	content := render.Render(tmpl.Content, values)

	title := input.Title
	if title == "" {
		title = notif.Title
	}

	dispatcher, ok := s.dispatchers.For(input.Channel)
	if !ok {
		return nil, fmt.Errorf("no dispatcher registered for channel %s", input.Channel)
	}

	attrValues := buildAttributeValues(attrs, values)

	results := make([]DeliveryResult, len(input.Recipients))
	errs := make([]error, len(input.Recipients))
	var wg sync.WaitGroup
	for i, recipient := range input.Recipients {
		wg.Add(1)
		go func(i int, recipient string) {
			defer wg.Done()
			results[i], errs[i] = s.deliverOne(ctx, dispatcher, input.Channel, title, tmpl.ID, recipient, content, attrValues)
		}(i, recipient)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("notification dispatched", map[string]interface{}{
		"notificationId": notif.ID,
		"channel":        string(input.Channel),
		"recipients":     len(input.Recipients),
	})
	return &SendOutput{Message: "Notification dispatched", Deliveries: results}, nil
}

func (s *Service) resolveNotification(ctx context.Context, projectID int64, input SendInput) (*models.Notification, error) {
	switch {
	case input.NotificationID != nil && input.ExternalID != nil:
		verr := apperrors.NewValidationError()
		verr.AddField("notificationId", "provide either notificationId or externalId, not both")
		verr.AddField("externalId", "provide either notificationId or externalId, not both")
		return nil, verr
	case input.NotificationID != nil:
		return s.notifications.GetByID(ctx, projectID, *input.NotificationID)
	case input.ExternalID != nil:
		return s.notifications.GetByExternalID(ctx, projectID, *input.ExternalID)
	default:
		verr := apperrors.NewValidationError()
		verr.AddField("notificationId", "either notificationId or externalId is required")
		verr.AddField("externalId", "either notificationId or externalId is required")
		return nil, verr
	}
}

// resolveTemplate converts a missing template into a ChannelUnavailableError
// listing the channels the notification does have.
func (s *Service) resolveTemplate(ctx context.Context, notificationID int64, ch models.Channel) (*models.Template, error) {
	tmpl, err := s.templates.GetByNotificationAndChannel(ctx, notificationID, ch)
	if err == nil {
		return tmpl, nil
	}
	nfe := &apperrors.NotFoundError{}
	if !errors.As(err, &nfe) {
		return nil, err
	}

	channels, listErr := s.templates.ListChannels(ctx, notificationID)
	if listErr != nil {
		return nil, fmt.Errorf("listing available channels: %w", listErr)
	}
	available := make([]string, 0, len(channels))
	for _, c := range channels {
		available = append(available, c.Display())
	}
	return nil, apperrors.NewChannelUnavailableError(ch.Display(), available)
}

func (s *Service) deliverOne(
	ctx context.Context,
	dispatcher channel.Dispatcher,
	ch models.Channel,
	title string,
	templateID int64,
	recipient string,
	content string,
	attrValues []models.AttributeValue,
) (DeliveryResult, error) {
	start := time.Now()
	outcome := dispatcher.Dispatch(ctx, recipient, title, content)
	metrics.DispatchDuration.WithLabelValues(string(ch)).Observe(time.Since(start).Seconds())
	metrics.DeliveriesTotal.WithLabelValues(string(ch), string(outcome.Status)).Inc()

	delivery := &models.NotificationDelivery{
		ID:         uuid.New().String(),
		Title:      title,
		TemplateID: templateID,
		Recipient:  recipient,
		Status:     outcome.Status,
	}
	if outcome.Status == models.StatusSent {
		now := time.Now().UTC()
		delivery.SentAt = &now
	} else {
		reason := outcome.FailReason
		delivery.FailReason = &reason
	}

	// each recipient persists its own copy of the attribute values
	values := make([]models.AttributeValue, len(attrValues))
	copy(values, attrValues)
	for i := range values {
		values[i].ID = ""
	}

	if err := s.deliveries.Create(ctx, delivery, values); err != nil {
		s.logger.WithError(err).Error("persisting delivery failed", map[string]interface{}{
			"recipient": recipient,
		})
		return DeliveryResult{}, fmt.Errorf("persisting delivery: %w", err)
	}

	result := DeliveryResult{
		ID:        delivery.ID,
		Recipient: recipient,
		Status:    string(outcome.Status),
	}
	if outcome.Status == models.StatusFailed {
		result.FailReason = outcome.FailReason
	}
	return result, nil
}

// buildAttributeValues routes each coerced value into the column matching the
// attribute's declared type. Attributes without a supplied value get no row.
func buildAttributeValues(attrs []models.Attribute, values validator.Values) []models.AttributeValue {
	out := make([]models.AttributeValue, 0, len(values))
	for _, attr := range attrs {
		value, ok := values[attr.Name]
		if !ok {
			continue
		}
		row := models.AttributeValue{AttributeID: attr.ID}
		switch attr.Type {
		case models.AttributeNumber:
			n := value.Number
			row.ValueNumber = &n
		case models.AttributeDate:
			d := value.Date
			row.ValueDate = &d
		default:
			s := value.Text
			row.ValueString = &s
		}
		out = append(out, row)
	}
	return out
}
