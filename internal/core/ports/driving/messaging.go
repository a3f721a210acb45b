package driving

import (
	"context"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// MessagingService exposes the Pub/Sub calls that have no resource
// equivalent.
type MessagingService interface {
	// Publish sends messages to a topic and returns their server ids.
	Publish(ctx context.Context, topic string, messages ...domain.Message) ([]string, error)

	// Pull receives up to maxMessages from a subscription.
	Pull(ctx context.Context, subscription string, maxMessages int64) ([]domain.ReceivedMessage, error)

	// Acknowledge marks pulled messages as processed.
	Acknowledge(ctx context.Context, subscription string, ackIDs ...string) error
}

// MigrationService exposes migration job control.
type MigrationService interface {
	// Cancel stops a running migration and returns its final state.
	Cancel(ctx context.Context, id string) (*domain.MigrationJob, error)
}
