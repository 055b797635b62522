// Package events carries file lifecycle notifications to other services.
package events

import (
	"context"
	"time"
)

type Kind string

const (
	KindFileCreated  Kind = "created"
	KindFileTrashed  Kind = "trashed"
	KindFileRestored Kind = "restored"
	KindFilePurged   Kind = "purged"
)

type FileEvent struct {
	Kind       Kind      `msgpack:"kind"`
	FileID     string    `msgpack:"file_id"`
	OrgID      string    `msgpack:"org_id"`
	Name       string    `msgpack:"name"`
	Type       string    `msgpack:"type"`
	ActorID    string    `msgpack:"actor_id,omitempty"`
	OccurredAt time.Time `msgpack:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event FileEvent) error
	Close() error
}

// Discard drops every event. It is used when no broker is configured.
type Discard struct{}

func (Discard) Publish(ctx context.Context, event FileEvent) error { return nil }
func (Discard) Close() error                                       { return nil }
