package domain

import "time"

// Topic is the local model of a Pub/Sub topic. ID is the short topic name.
type Topic struct {
	ID     string            `json:"id"`
	Labels map[string]string `json:"labels,omitempty"`
}

// Subscription is the local model of a Pub/Sub subscription.
type Subscription struct {
	ID                 string            `json:"id"`
	Topic              string            `json:"topic"`
	AckDeadlineSeconds int64             `json:"ack_deadline_seconds,omitempty"`
	PushEndpoint       string            `json:"push_endpoint,omitempty"`
	Labels             map[string]string `json:"labels,omitempty"`
}

// Message is a Pub/Sub message. Data holds the decoded payload.
type Message struct {
	ID          string            `json:"id,omitempty"`
	Data        []byte            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	OrderingKey string            `json:"ordering_key,omitempty"`
	PublishTime time.Time         `json:"publish_time,omitzero"`
}

// ReceivedMessage is a pulled message with the ack id needed to acknowledge it.
type ReceivedMessage struct {
	AckID           string  `json:"ack_id"`
	Message         Message `json:"message"`
	DeliveryAttempt int64   `json:"delivery_attempt,omitempty"`
}
