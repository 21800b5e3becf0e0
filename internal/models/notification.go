// internal/models/notification.go
package models

import (
	"strings"
	"time"
)

// Channel is a delivery medium. A notification has at most one template per channel.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelPush  Channel = "PUSH"
)

// Channels returns all known channels in a stable order.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelPush}
}

// ParseChannel matches a channel name case-insensitively.
func ParseChannel(s string) (Channel, bool) {
	switch Channel(strings.ToUpper(strings.TrimSpace(s))) {
	case ChannelEmail:
		return ChannelEmail, true
	case ChannelSMS:
		return ChannelSMS, true
	case ChannelPush:
		return ChannelPush, true
	}
	return "", false
}

// Display returns the human-facing form of the channel name ("Email", "Sms", "Push").
// Used in error hints and simulated failure reasons.
func (c Channel) Display() string {
	s := string(c)
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

// AttributeType is the declared type of a template attribute.
type AttributeType string

const (
	AttributeText   AttributeType = "TEXT"
	AttributeNumber AttributeType = "NUMBER"
	AttributeDate   AttributeType = "DATE"
)

// DeliveryStatus is the outcome of one delivery attempt.
type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "PENDING"
	StatusSent    DeliveryStatus = "SENT"
	StatusFailed  DeliveryStatus = "FAILED"
)

// Project is the tenant owning notifications. Resolved from an API key by the
// auth middleware; the dispatch pipeline only ever sees the project id.
type Project struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	APIKey   string `json:"-"`
	IsActive bool   `json:"isActive"`
}

// Notification is a logical notification type, addressable by id or by the
// caller-supplied external id (unique per project when present).
type Notification struct {
	ID         int64   `json:"id"`
	ProjectID  int64   `json:"projectId"`
	Title      string  `json:"title"`
	ExternalID *string `json:"externalId,omitempty"`
}

// Template is channel-specific content with {{name}} placeholders.
type Template struct {
	ID             int64   `json:"id"`
	NotificationID int64   `json:"notificationId"`
	Channel        Channel `json:"channel"`
	Content        string  `json:"content"`
}

// Attribute declares one typed, optionally-required slot on a template.
type Attribute struct {
	ID         int64         `json:"id"`
	TemplateID int64         `json:"templateId"`
	Name       string        `json:"name"`
	Type       AttributeType `json:"type"`
	IsRequired bool          `json:"isRequired"`
}

// NotificationDelivery is one recipient's outcome for one send call.
// Rows are written once with their final status and never updated.
type NotificationDelivery struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	TemplateID int64          `json:"templateId"`
	Recipient  string         `json:"recipient"`
	Status     DeliveryStatus `json:"status"`
	FailReason *string        `json:"failReason,omitempty"`
	SentAt     *time.Time     `json:"sentAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// AttributeValue stores one delivery's value for one attribute. Exactly one of
// the three value columns is populated, chosen by the attribute's declared type.
type AttributeValue struct {
	ID                     string     `json:"id"`
	NotificationDeliveryID string     `json:"notificationDeliveryId"`
	AttributeID            int64      `json:"attributeId"`
	ValueString            *string    `json:"valueString,omitempty"`
	ValueNumber            *float64   `json:"valueNumber,omitempty"`
	ValueDate              *time.Time `json:"valueDate,omitempty"`
}
