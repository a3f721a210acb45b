package app

import (
	"context"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driving"
)

// Ensure the adapters implement the driving ports.
var (
	_ driving.MessagingService = messaging{}
	_ driving.MigrationService = migrations{}
)

// Messaging returns the Pub/Sub message calls backed by the cached facade.
func (a *App) Messaging() driving.MessagingService {
	return messaging{a}
}

// Migrations returns migration job control backed by the cached facade.
func (a *App) Migrations() driving.MigrationService {
	return migrations{a}
}

type messaging struct{ a *App }

func (m messaging) Publish(ctx context.Context, topic string, messages ...domain.Message) ([]string, error) {
	f, err := m.a.PubSub(ctx)
	if err != nil {
		return nil, err
	}
	return f.Publish(ctx, topic, messages...)
}

func (m messaging) Pull(ctx context.Context, subscription string, maxMessages int64) ([]domain.ReceivedMessage, error) {
	f, err := m.a.PubSub(ctx)
	if err != nil {
		return nil, err
	}
	return f.Pull(ctx, subscription, maxMessages)
}

func (m messaging) Acknowledge(ctx context.Context, subscription string, ackIDs ...string) error {
	f, err := m.a.PubSub(ctx)
	if err != nil {
		return err
	}
	return f.Acknowledge(ctx, subscription, ackIDs...)
}

type migrations struct{ a *App }

func (m migrations) Cancel(ctx context.Context, id string) (*domain.MigrationJob, error) {
	f, err := m.a.Agent(ctx)
	if err != nil {
		return nil, err
	}
	return f.Cancel(ctx, id)
}
