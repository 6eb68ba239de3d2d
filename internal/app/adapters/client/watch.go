package client

import (
	"context"
	"fmt"
	"io"
	"selfchat/internal/app/domain/message"
	"time"
)

const clearScreen = "\033[H\033[2J"

// Watch re-fetches the list every poll and redraws the countdowns every redraw until ctx is done.
// A failed fetch empties the view until the next successful poll.
func (c *Client) Watch(ctx context.Context, out io.Writer, ttl, poll, redraw time.Duration) error {
	var (
		msgs    []message.Message
		lastErr error
	)

	fetch := func() {
		msgs, lastErr = c.List(ctx)
		if lastErr != nil && ctx.Err() == nil {
			c.log.Warn("Failed to fetch messages", "error", lastErr.Error())
		}
	}
	draw := func() {
		fmt.Fprint(out, clearScreen)
		if lastErr != nil {
			fmt.Fprintf(out, "server unreachable: %v\n", lastErr)
		}
		Render(out, msgs, ttl, time.Now())
	}

	fetch()
	draw()

	pollTicker := time.NewTicker(poll)
	defer pollTicker.Stop()
	redrawTicker := time.NewTicker(redraw)
	defer redrawTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pollTicker.C:
			fetch()
			draw()
		case <-redrawTicker.C:
			draw()
		}
	}
}

// Render prints msgs in order, each with its remaining lifetime.
func Render(w io.Writer, msgs []message.Message, ttl time.Duration, now time.Time) {
	fmt.Fprintf(w, "Self Chat (EN/JP) | %d messages | ttl %s\n\n", len(msgs), message.FormatRemaining(ttl))

	for _, m := range msgs {
		indent := ""
		if m.Sender == message.SenderB {
			indent = "\t\t"
		}
		fmt.Fprintf(w, "%s[%s] %s\n", indent, m.Sender, m.TextPrimary)
		fmt.Fprintf(w, "%s    %s\n", indent, m.TextSecondary)
		fmt.Fprintf(w, "%s    %s left  id=%s\n", indent, message.FormatRemaining(message.Remaining(m.CreatedAt, ttl, now)), m.ID)
	}
}
