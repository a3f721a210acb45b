// Package pubsub wraps the Cloud Pub/Sub v1 REST API behind the facade.
//
// Resources are addressed by short name; the configured project id
// qualifies them as projects/<project>/topics/<name> on the wire.
package pubsub

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/pubsub/v1"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// Substitute record kinds.
const (
	KindTopics        = "pubsub/topics"
	KindSubscriptions = "pubsub/subscriptions"
)

// DefaultMaxMessages bounds a Pull when no maximum is given.
const DefaultMaxMessages = 100

// Facade exposes Pub/Sub resources and the publish/pull adaptee calls.
type Facade struct {
	deps    google.Deps
	svc     *pubsub.Service
	project string
}

// New creates the Pub/Sub facade.
func New(ctx context.Context, deps google.Deps) (*Facade, error) {
	f := &Facade{deps: deps}
	if deps.Settings != nil {
		f.project = deps.Settings.ProjectID
	}
	if deps.Local {
		return f, nil
	}
	svc, err := google.NewPubSubService(ctx, deps)
	if err != nil {
		return nil, err
	}
	f.svc = svc
	return f, nil
}

// Service returns the generated client, nil when substituted.
func (f *Facade) Service() *pubsub.Service {
	return f.svc
}

var topicIdentity = google.Identity[domain.Topic]{
	Get: func(t *domain.Topic) string { return t.ID },
	Set: func(t *domain.Topic, id string) { t.ID = id },
}

var subscriptionIdentity = google.Identity[domain.Subscription]{
	Get: func(s *domain.Subscription) string { return s.ID },
	Set: func(s *domain.Subscription, id string) { s.ID = id },
}

// Topics returns the topics of the configured project.
func (f *Facade) Topics() google.Resource[domain.Topic] {
	return google.Resolve(f.deps, KindTopics, topicIdentity, f.remoteTopics)
}

// Subscriptions returns the subscriptions of the configured project.
func (f *Facade) Subscriptions() google.Resource[domain.Subscription] {
	return google.Resolve(f.deps, KindSubscriptions, subscriptionIdentity, f.remoteSubscriptions)
}

func (f *Facade) projectPath() (string, error) {
	if f.project == "" {
		return "", fmt.Errorf("%w: %s.%s", domain.ErrMissingProperty, f.prefix(), domain.PropProjectID)
	}
	return "projects/" + f.project, nil
}

func (f *Facade) prefix() string {
	if f.deps.Settings == nil || f.deps.Settings.Prefix == "" {
		return string(domain.APIPubSub)
	}
	return f.deps.Settings.Prefix
}

// qualify expands a short name into a full resource name. Names that are
// already qualified pass through.
func (f *Facade) qualify(collection, name string) (string, error) {
	if strings.HasPrefix(name, "projects/") {
		return name, nil
	}
	if name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("%w: %s name %q", domain.ErrInvalidInput, collection, name)
	}
	project, err := f.projectPath()
	if err != nil {
		return "", err
	}
	return project + "/" + collection + "/" + name, nil
}

// shorten is the inverse of qualify for names in the configured project.
func (f *Facade) shorten(collection, name string) string {
	prefix := "projects/" + f.project + "/" + collection + "/"
	if f.project != "" && strings.HasPrefix(name, prefix) {
		return strings.TrimPrefix(name, prefix)
	}
	return name
}

func (f *Facade) remoteTopics() google.Resource[domain.Topic] {
	topics := f.svc.Projects.Topics
	ops := google.Operations[*pubsub.Topic]{
		Get: func(ctx context.Context, id string, req google.Request) (*pubsub.Topic, error) {
			name, err := f.qualify("topics", id)
			if err != nil {
				return nil, err
			}
			return topics.Get(name).Context(ctx).Do(req.CallOptions()...)
		},
		Insert: func(ctx context.Context, item *pubsub.Topic, req google.Request) (*pubsub.Topic, error) {
			name, err := f.qualify("topics", item.Name)
			if err != nil {
				return nil, err
			}
			item.Name = name
			return topics.Create(name, item).Context(ctx).Do(req.CallOptions()...)
		},
		Update: func(ctx context.Context, id string, item *pubsub.Topic, req google.Request) (*pubsub.Topic, error) {
			name, err := f.qualify("topics", id)
			if err != nil {
				return nil, err
			}
			item.Name = name
			return topics.Patch(name, &pubsub.UpdateTopicRequest{
				Topic:      item,
				UpdateMask: "labels",
			}).Context(ctx).Do(req.CallOptions()...)
		},
		Delete: func(ctx context.Context, id string, req google.Request) error {
			name, err := f.qualify("topics", id)
			if err != nil {
				return err
			}
			_, err = topics.Delete(name).Context(ctx).Do(req.CallOptions()...)
			return err
		},
		List: func(ctx context.Context, req google.ListRequest) ([]*pubsub.Topic, string, error) {
			project, err := f.projectPath()
			if err != nil {
				return nil, "", err
			}
			call := topics.List(project).Context(ctx)
			if req.PageSize > 0 {
				call = call.PageSize(req.PageSize)
			}
			if req.PageToken != "" {
				call = call.PageToken(req.PageToken)
			}
			resp, err := call.Do(req.CallOptions()...)
			if err != nil {
				return nil, "", err
			}
			return resp.Topics, resp.NextPageToken, nil
		},
	}
	return google.NewResourceAdapter(KindTopics, topics, ops, topicMapper{f})
}

func (f *Facade) remoteSubscriptions() google.Resource[domain.Subscription] {
	subs := f.svc.Projects.Subscriptions
	ops := google.Operations[*pubsub.Subscription]{
		Get: func(ctx context.Context, id string, req google.Request) (*pubsub.Subscription, error) {
			name, err := f.qualify("subscriptions", id)
			if err != nil {
				return nil, err
			}
			return subs.Get(name).Context(ctx).Do(req.CallOptions()...)
		},
		Insert: func(ctx context.Context, item *pubsub.Subscription, req google.Request) (*pubsub.Subscription, error) {
			name, err := f.qualify("subscriptions", item.Name)
			if err != nil {
				return nil, err
			}
			if item.Topic, err = f.qualify("topics", item.Topic); err != nil {
				return nil, err
			}
			item.Name = name
			return subs.Create(name, item).Context(ctx).Do(req.CallOptions()...)
		},
		Update: func(ctx context.Context, id string, item *pubsub.Subscription, req google.Request) (*pubsub.Subscription, error) {
			name, err := f.qualify("subscriptions", id)
			if err != nil {
				return nil, err
			}
			mask := subscriptionMask(item)
			if mask == "" {
				return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
			}
			item.Name = name
			return subs.Patch(name, &pubsub.UpdateSubscriptionRequest{
				Subscription: item,
				UpdateMask:   mask,
			}).Context(ctx).Do(req.CallOptions()...)
		},
		Delete: func(ctx context.Context, id string, req google.Request) error {
			name, err := f.qualify("subscriptions", id)
			if err != nil {
				return err
			}
			_, err = subs.Delete(name).Context(ctx).Do(req.CallOptions()...)
			return err
		},
		List: func(ctx context.Context, req google.ListRequest) ([]*pubsub.Subscription, string, error) {
			project, err := f.projectPath()
			if err != nil {
				return nil, "", err
			}
			call := subs.List(project).Context(ctx)
			if req.PageSize > 0 {
				call = call.PageSize(req.PageSize)
			}
			if req.PageToken != "" {
				call = call.PageToken(req.PageToken)
			}
			resp, err := call.Do(req.CallOptions()...)
			if err != nil {
				return nil, "", err
			}
			return resp.Subscriptions, resp.NextPageToken, nil
		},
	}
	return google.NewResourceAdapter(KindSubscriptions, subs, ops, subscriptionMapper{f})
}

// subscriptionMask names the mutable fields set on item.
func subscriptionMask(item *pubsub.Subscription) string {
	var mask []string
	if item.Labels != nil {
		mask = append(mask, "labels")
	}
	if item.AckDeadlineSeconds > 0 {
		mask = append(mask, "ackDeadlineSeconds")
	}
	if item.PushConfig != nil {
		mask = append(mask, "pushConfig")
	}
	return strings.Join(mask, ",")
}

// Publish sends messages to a topic and returns the server-assigned ids.
func (f *Facade) Publish(ctx context.Context, topic string, messages ...domain.Message) ([]string, error) {
	if f.svc == nil {
		return nil, google.Unsupported(KindTopics, "publish")
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: publish needs at least one message", domain.ErrInvalidInput)
	}
	name, err := f.qualify("topics", topic)
	if err != nil {
		return nil, err
	}
	req := &pubsub.PublishRequest{Messages: make([]*pubsub.PubsubMessage, 0, len(messages))}
	for i := range messages {
		req.Messages = append(req.Messages, toRemoteMessage(&messages[i]))
	}
	resp, err := f.svc.Projects.Topics.Publish(name, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s publish %s: %w", KindTopics, topic, google.WrapError(err))
	}
	return resp.MessageIds, nil
}

// Pull fetches up to maxMessages messages from a subscription. It returns an empty
// slice when nothing is waiting.
func (f *Facade) Pull(ctx context.Context, subscription string, maxMessages int64) ([]domain.ReceivedMessage, error) {
	if f.svc == nil {
		return nil, google.Unsupported(KindSubscriptions, "pull")
	}
	name, err := f.qualify("subscriptions", subscription)
	if err != nil {
		return nil, err
	}
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	resp, err := f.svc.Projects.Subscriptions.Pull(name, &pubsub.PullRequest{MaxMessages: maxMessages}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s pull %s: %w", KindSubscriptions, subscription, google.WrapError(err))
	}
	out := make([]domain.ReceivedMessage, 0, len(resp.ReceivedMessages))
	for _, rm := range resp.ReceivedMessages {
		if rm == nil {
			continue
		}
		local := domain.ReceivedMessage{AckID: rm.AckId, DeliveryAttempt: rm.DeliveryAttempt}
		if rm.Message != nil {
			msg, err := toLocalMessage(rm.Message)
			if err != nil {
				return nil, err
			}
			local.Message = *msg
		}
		out = append(out, local)
	}
	return out, nil
}

// Acknowledge marks pulled messages as processed.
func (f *Facade) Acknowledge(ctx context.Context, subscription string, ackIDs ...string) error {
	if f.svc == nil {
		return google.Unsupported(KindSubscriptions, "acknowledge")
	}
	if len(ackIDs) == 0 {
		return nil
	}
	name, err := f.qualify("subscriptions", subscription)
	if err != nil {
		return err
	}
	_, err = f.svc.Projects.Subscriptions.Acknowledge(name, &pubsub.AcknowledgeRequest{AckIds: ackIDs}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s acknowledge %s: %w", KindSubscriptions, subscription, google.WrapError(err))
	}
	return nil
}

func toRemoteMessage(m *domain.Message) *pubsub.PubsubMessage {
	return &pubsub.PubsubMessage{
		Data:        base64.StdEncoding.EncodeToString(m.Data),
		Attributes:  m.Attributes,
		OrderingKey: m.OrderingKey,
	}
}

func toLocalMessage(m *pubsub.PubsubMessage) (*domain.Message, error) {
	data, err := base64.StdEncoding.DecodeString(m.Data)
	if err != nil {
		return nil, fmt.Errorf("decode message %s: %w", m.MessageId, err)
	}
	return &domain.Message{
		ID:          m.MessageId,
		Data:        data,
		Attributes:  m.Attributes,
		OrderingKey: m.OrderingKey,
		PublishTime: google.ParseTime(m.PublishTime),
	}, nil
}
