// internal/dispatch/channel/simulated.go
package channel

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"notification-service/internal/common/logger"
	"notification-service/internal/models"
)

// DefaultFailureRate is the simulated delivery failure probability.
const DefaultFailureRate = 0.2

// SimulatedDispatcher stands in for channels with no real provider
// integration (SMS, PUSH). Outcomes are random: FAILED with the configured
// probability, SENT otherwise. A production integration replaces only this
// implementation.
type SimulatedDispatcher struct {
	channel     models.Channel
	failureRate float64
	logger      logger.Logger

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

func NewSimulatedDispatcher(ch models.Channel, failureRate float64, log logger.Logger) *SimulatedDispatcher {
	return NewSimulatedDispatcherWithSource(ch, failureRate, log, rand.NewSource(time.Now().UnixNano()))
}

// NewSimulatedDispatcherWithSource injects the randomness source, letting
// tests pin outcomes.
func NewSimulatedDispatcherWithSource(ch models.Channel, failureRate float64, log logger.Logger, src rand.Source) *SimulatedDispatcher {
	return &SimulatedDispatcher{
		channel:     ch,
		failureRate: failureRate,
		logger:      log.WithFields(map[string]interface{}{"channel": string(ch)}),
		rng:         rand.New(src),
	}
}

func (d *SimulatedDispatcher) Dispatch(_ context.Context, recipient, _, _ string) Outcome {
	d.mu.Lock()
	roll := d.rng.Float64()
	d.mu.Unlock()

	if roll < d.failureRate {
		d.logger.Debug("simulated delivery failed", map[string]interface{}{
			"recipient": recipient,
		})
		return failed(d.channel.Display() + " failed to deliver")
	}
	return sent()
}
