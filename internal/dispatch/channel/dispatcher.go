// internal/dispatch/channel/dispatcher.go
package channel

import (
	"context"

	"notification-service/internal/models"
)

// Outcome is the result of one dispatch attempt. FailReason is set only when
// Status is FAILED.
type Outcome struct {
	Status     models.DeliveryStatus
	FailReason string
}

// Dispatcher sends rendered content to one recipient over one channel. This is
// the single seam where real and simulated delivery diverge; swapping an
// implementation must not touch the orchestrator.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipient, subject, content string) Outcome
}

// Registry maps each channel to its dispatcher.
type Registry map[models.Channel]Dispatcher

// For returns the dispatcher for a channel.
func (r Registry) For(c models.Channel) (Dispatcher, bool) {
	d, ok := r[c]
	return d, ok
}

func sent() Outcome {
	return Outcome{Status: models.StatusSent}
}

func failed(reason string) Outcome {
	return Outcome{Status: models.StatusFailed, FailReason: reason}
}
