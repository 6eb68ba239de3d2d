package ports

import (
	"context"
	"selfchat/internal/app/domain/message"
	"time"
)

// MessageStorePort is the record store. Records older than the configured TTL are never returned.
type MessageStorePort interface {
	// Initialize installs the expiry policy. Calling it again with the same ttl changes nothing.
	Initialize(ctx context.Context, ttl time.Duration) error
	List(ctx context.Context) ([]message.Message, error)
	Create(ctx context.Context, sender message.Sender, textPrimary, textSecondary string) (*message.Message, error)
	Update(ctx context.Context, id, textPrimary, textSecondary string) (*message.Message, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}
