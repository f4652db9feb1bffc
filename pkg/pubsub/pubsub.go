package pubsub

import (
	"context"
	"encoding/json"
)

// Topics
const (
	TopicGraphs = "graphs"
	TopicStatus = "catalog_status"
)

// Event types on TopicGraphs
const (
	GraphUpdated = "graph_updated"
	GraphFailed  = "graph_failed"
	GraphRemoved = "graph_removed"
)

// Event is a published message
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // per topic, starts at 1
}

// Subscription receives the events of one topic
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher fans events out to topic subscribers.
// Cancelling the context passed to Subscribe closes the subscription.
type Publisher interface {
	Subscribe(ctx context.Context, topic string) (Subscription, error)
	Publish(topic string, eventType string, data interface{}) error
	Close() error
}

// GraphEvent is the payload of TopicGraphs events
type GraphEvent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Directed bool   `json:"directed,omitempty"`
	Nodes    int    `json:"nodes,omitempty"`
	Edges    int    `json:"edges,omitempty"`
	Error    string `json:"error,omitempty"`

	// Set when a graph that decoded before decodes again
	Changes *GraphChanges `json:"changes,omitempty"`
}

// GraphChanges counts what a reload changed
type GraphChanges struct {
	AddedNodes   int `json:"added_nodes"`
	RemovedNodes int `json:"removed_nodes"`
	AddedEdges   int `json:"added_edges"`
	RemovedEdges int `json:"removed_edges"`
}

// CatalogStatus is the payload of TopicStatus events
type CatalogStatus struct {
	State   string `json:"state"` // loading, ready, error
	Message string `json:"message"`
	Files   int    `json:"files"`
	Failed  int    `json:"failed"`
}
