// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "notification-service/internal/common/errors"
	"notification-service/internal/common/logger"
	"notification-service/internal/dispatch"
	"notification-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationService is the dispatch surface the handlers call. Defined here
// for mocking.
type NotificationService interface {
	SendNotification(ctx context.Context, projectID int64, input dispatch.SendInput) (*dispatch.SendOutput, error)
	GetNotificationStatus(ctx context.Context, projectID int64, deliveryID string) (*dispatch.StatusOutput, error)
}

// NotificationHandler exposes the dispatch pipeline over HTTP.
type NotificationHandler struct {
	service NotificationService
	logger  logger.Logger
}

func NewNotificationHandler(service NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, logger: log}
}

// StringList accepts either a single JSON string or an array of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("recipients must be a string or an array of strings")
	}
	*l = StringList(many)
	return nil
}

type sendRequest struct {
	Title          string                 `json:"title"`
	NotificationID *int64                 `json:"notificationId"`
	ExternalID     *string                `json:"externalId"`
	Channel        string                 `json:"channel"`
	Recipients     StringList             `json:"recipients"`
	Attributes     map[string]interface{} `json:"attributes"`
}

// Send handles POST /notifications.
func (h *NotificationHandler) Send(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Request body must be valid JSON",
		})
		return
	}

	fields := validateEnvelope(body)
	if fields == nil {
		fields = map[string]string{}
	}

	var req sendRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Request body must be valid JSON",
		})
		return
	}

	if req.NotificationID == nil && req.ExternalID == nil {
		fields["notificationId"] = "either notificationId or externalId is required"
		fields["externalId"] = "either notificationId or externalId is required"
	}
	if req.NotificationID != nil && req.ExternalID != nil {
		fields["notificationId"] = "provide either notificationId or externalId, not both"
		fields["externalId"] = "provide either notificationId or externalId, not both"
	}

	ch, ok := models.ParseChannel(req.Channel)
	if _, flagged := fields["channel"]; !ok && !flagged {
		fields["channel"] = "channel must be one of EMAIL, SMS, PUSH"
	}

	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation Error",
			"errors": fields,
		})
		return
	}

	out, err := h.service.SendNotification(c.Request.Context(), c.GetInt64("projectID"), dispatch.SendInput{
		Title:          req.Title,
		NotificationID: req.NotificationID,
		ExternalID:     req.ExternalID,
		Channel:        ch,
		Recipients:     []string(req.Recipients),
		Attributes:     req.Attributes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    out.Message,
		"deliveries": out.Deliveries,
	})
}

// Status handles GET /notifications/:id.
func (h *NotificationHandler) Status(c *gin.Context) {
	deliveryID := c.Param("id")
	if _, err := uuid.Parse(deliveryID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid delivery id",
		})
		return
	}

	out, err := h.service.GetNotificationStatus(c.Request.Context(), c.GetInt64("projectID"), deliveryID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    out,
	})
}

// writeError maps domain errors onto HTTP responses. Validation errors keep
// envelope fields at the top level and nest attribute failures under
// "attributes" so callers can tell schema problems from payload problems.
func (h *NotificationHandler) writeError(c *gin.Context, err error) {
	verr := &apperrors.ValidationError{}
	if errors.As(err, &verr) {
		errs := gin.H{}
		for field, msg := range verr.Fields {
			errs[field] = msg
		}
		if len(verr.AttributeFields) > 0 {
			errs["attributes"] = verr.AttributeFields
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation Error",
			"errors": errs,
		})
		return
	}

	cue := &apperrors.ChannelUnavailableError{}
	if errors.As(err, &cue) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid Channel",
			"message": cue.Hint(),
		})
		return
	}

	nfe := &apperrors.NotFoundError{}
	if errors.As(err, &nfe) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": nfe.Error(),
		})
		return
	}

	h.logger.WithError(err).Error("request failed", map[string]interface{}{
		"path": c.FullPath(),
	})
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal Server Error",
		"message": "Something went wrong",
	})
}
