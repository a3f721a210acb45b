package driven

import "github.com/custodia-labs/gfacade/internal/core/domain"

// EventPublisher receives request events from the HTTP interceptor.
// Publish must not block the request path.
type EventPublisher interface {
	Publish(event domain.RequestEvent)
}
