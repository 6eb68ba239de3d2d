package chat

import (
	"context"
	"fmt"
	"selfchat/internal/app/domain/message"
	"selfchat/internal/app/ports"
	"selfchat/pkg/logger"
)

// Chat validates requests and forwards them to the record store.
type Chat struct {
	log   logger.Logger
	store ports.MessageStorePort
}

func New(log logger.Logger, store ports.MessageStorePort) *Chat {
	return &Chat{
		log:   log,
		store: store,
	}
}

func (c *Chat) List(ctx context.Context) ([]message.Message, error) {
	msgs, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return msgs, nil
}

func (c *Chat) Create(ctx context.Context, sender message.Sender, textPrimary, textSecondary string) (*message.Message, error) {
	if err := message.ValidateNew(sender, textPrimary, textSecondary); err != nil {
		return nil, err
	}

	msg, err := c.store.Create(ctx, sender, textPrimary, textSecondary)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	c.log.Debug("Message created", "id", msg.ID, "sender", msg.Sender)
	return msg, nil
}

func (c *Chat) Update(ctx context.Context, id, textPrimary, textSecondary string) (*message.Message, error) {
	if id == "" {
		return nil, message.ErrNotFound
	}
	if err := message.ValidateTexts(textPrimary, textSecondary); err != nil {
		return nil, err
	}

	msg, err := c.store.Update(ctx, id, textPrimary, textSecondary)
	if err != nil {
		return nil, fmt.Errorf("update message %s: %w", id, err)
	}

	c.log.Debug("Message updated", "id", msg.ID)
	return msg, nil
}

func (c *Chat) Delete(ctx context.Context, id string) error {
	if id == "" {
		return message.ErrNotFound
	}
	if err := c.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}

	c.log.Debug("Message deleted", "id", id)
	return nil
}
