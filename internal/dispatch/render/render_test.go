// internal/dispatch/render/render_test.go
package render

import (
	"testing"
	"time"

	"notification-service/internal/dispatch/validator"
	"notification-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRender_SubstitutesAllOccurrences(t *testing.T) {
	values := validator.Values{
		"name": {Type: models.AttributeText, Text: "Ada"},
	}

	out := Render("Hi {{name}}, your account {{name}} is ready", values)

	assert.Equal(t, "Hi Ada, your account Ada is ready", out)
}

func TestRender_TypedValues(t *testing.T) {
	values := validator.Values{
		"amount":  {Type: models.AttributeNumber, Number: 19.99},
		"dueDate": {Type: models.AttributeDate, Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
	}

	out := Render("Pay {{amount}} by {{dueDate}}", values)

	assert.Equal(t, "Pay 19.99 by 2026-09-01T00:00:00Z", out)
}

func TestRender_UnresolvedPlaceholderLeftVerbatim(t *testing.T) {
	values := validator.Values{
		"name": {Type: models.AttributeText, Text: "Ada"},
	}

	out := Render("Hi {{name}}, code {{coupon}}", values)

	assert.Equal(t, "Hi Ada, code {{coupon}}", out)
}

func TestRender_Idempotent(t *testing.T) {
	values := validator.Values{
		"name": {Type: models.AttributeText, Text: "Ada"},
	}
	content := "Hi {{name}}"

	first := Render(content, values)
	second := Render(content, values)

	assert.Equal(t, first, second)
}

func TestRender_NoPlaceholders(t *testing.T) {
	out := Render("static content", validator.Values{
		"unused": {Type: models.AttributeText, Text: "x"},
	})

	assert.Equal(t, "static content", out)
}
