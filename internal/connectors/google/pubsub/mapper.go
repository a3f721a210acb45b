package pubsub

import (
	"google.golang.org/api/pubsub/v1"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// topicMapper qualifies topic names with the facade's project. A name that
// cannot be qualified is sent as given and rejected by the API.
type topicMapper struct{ f *Facade }

func (m topicMapper) Local(t *pubsub.Topic) *domain.Topic {
	return &domain.Topic{ID: m.f.shorten("topics", t.Name), Labels: t.Labels}
}

func (m topicMapper) Remote(t *domain.Topic) *pubsub.Topic {
	return &pubsub.Topic{Name: m.f.qualifyOrKeep("topics", t.ID), Labels: t.Labels}
}

type subscriptionMapper struct{ f *Facade }

func (m subscriptionMapper) Local(s *pubsub.Subscription) *domain.Subscription {
	out := &domain.Subscription{
		ID:                 m.f.shorten("subscriptions", s.Name),
		Topic:              m.f.shorten("topics", s.Topic),
		AckDeadlineSeconds: s.AckDeadlineSeconds,
		Labels:             s.Labels,
	}
	if s.PushConfig != nil {
		out.PushEndpoint = s.PushConfig.PushEndpoint
	}
	return out
}

func (m subscriptionMapper) Remote(s *domain.Subscription) *pubsub.Subscription {
	out := &pubsub.Subscription{
		Name:               m.f.qualifyOrKeep("subscriptions", s.ID),
		Topic:              m.f.qualifyOrKeep("topics", s.Topic),
		AckDeadlineSeconds: s.AckDeadlineSeconds,
		Labels:             s.Labels,
	}
	if s.PushEndpoint != "" {
		out.PushConfig = &pubsub.PushConfig{PushEndpoint: s.PushEndpoint}
	}
	return out
}

func (f *Facade) qualifyOrKeep(collection, name string) string {
	if name == "" {
		return ""
	}
	full, err := f.qualify(collection, name)
	if err != nil {
		return name
	}
	return full
}
