// Package notify decouples snapshot refreshes from dashboard re-rendering.
// The refresh engine publishes one event per refresh run; subscribers react
// without the engine knowing who listens or over what transport.
package notify

import (
	"context"
	"time"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

// TopicMetricsRefreshed is published exactly once per RefreshAll invocation,
// after all periods have been attempted.
const TopicMetricsRefreshed = "metrics:refreshed"

// PeriodOutcome summarizes one period of a refresh run for subscribers.
type PeriodOutcome struct {
	Period models.Period `json:"period"`
	OK     bool          `json:"ok"`
	Error  string        `json:"error,omitempty"`
}

// Payload is the event body for TopicMetricsRefreshed.
type Payload struct {
	ID         string          `json:"id"`
	Actor      models.Actor    `json:"actor"`
	ComputedAt time.Time       `json:"computed_at"`
	Periods    []PeriodOutcome `json:"periods"`
}

// Notifier is the publish side of the change channel.
type Notifier interface {
	Publish(ctx context.Context, topic string, payload Payload) error
}

// Subscriber is the receive side. Implementations deliver each published
// payload to every active subscription for the topic.
type Subscriber interface {
	// Subscribe returns a channel of payloads for the topic and a cancel
	// function that releases the subscription and closes the channel.
	Subscribe(topic string) (<-chan Payload, func())
}
