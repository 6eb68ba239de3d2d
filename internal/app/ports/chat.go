package ports

import (
	"context"
	"selfchat/internal/app/domain/message"
)

type ChatPort interface {
	List(ctx context.Context) ([]message.Message, error)
	Create(ctx context.Context, sender message.Sender, textPrimary, textSecondary string) (*message.Message, error)
	Update(ctx context.Context, id, textPrimary, textSecondary string) (*message.Message, error)
	Delete(ctx context.Context, id string) error
}
