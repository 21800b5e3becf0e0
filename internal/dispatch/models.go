// internal/dispatch/models.go
package dispatch

import (
	"time"

	"notification-service/internal/models"
)

// SendInput is the validated envelope of one send call. Exactly one of
// NotificationID / ExternalID selects the notification; the handler enforces
// that before the service runs.
type SendInput struct {
	Title          string
	NotificationID *int64
	ExternalID     *string
	Channel        models.Channel
	Recipients     []string
	Attributes     map[string]interface{}
}

// DeliveryResult is one recipient's outcome, in the same position as the
// recipient held in the request.
type DeliveryResult struct {
	ID         string `json:"id"`
	Recipient  string `json:"recipient"`
	Status     string `json:"status"`
	FailReason string `json:"failReason,omitempty"`
}

// SendOutput is the response body of a send call.
type SendOutput struct {
	Message    string           `json:"message"`
	Deliveries []DeliveryResult `json:"deliveries"`
}

// StatusOutput reconstructs one delivery record, attributes restored to their
// typed form.
type StatusOutput struct {
	Title      string                 `json:"title"`
	Status     string                 `json:"status"`
	Recipient  string                 `json:"recipient"`
	SentAt     *time.Time             `json:"sentAt,omitempty"`
	FailReason *string                `json:"failReason,omitempty"`
	Attributes map[string]interface{} `json:"attributes"`
}
