package message

import (
	"fmt"
	"time"
)

type Sender string

const (
	SenderA Sender = "A"
	SenderB Sender = "B"
)

func (s Sender) Valid() bool {
	return s == SenderA || s == SenderB
}

// Message is one stored record. Sender and CreatedAt never change after creation.
type Message struct {
	ID            string    `json:"id"`
	Sender        Sender    `json:"sender"`
	TextPrimary   string    `json:"textPrimary"`
	TextSecondary string    `json:"textSecondary"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ValidateNew checks the fields required to create a message.
func ValidateNew(sender Sender, textPrimary, textSecondary string) error {
	if sender == "" {
		return &ValidationError{Field: "sender", Reason: "is required"}
	}
	if !sender.Valid() {
		return &ValidationError{Field: "sender", Reason: fmt.Sprintf("must be %q or %q", SenderA, SenderB)}
	}
	return ValidateTexts(textPrimary, textSecondary)
}

// ValidateTexts checks both text variants are present.
func ValidateTexts(textPrimary, textSecondary string) error {
	if Blank(textPrimary) {
		return &ValidationError{Field: "textPrimary", Reason: "is required"}
	}
	if Blank(textSecondary) {
		return &ValidationError{Field: "textSecondary", Reason: "is required"}
	}
	return nil
}

// Expired reports whether a record created at createdAt is past its time-to-live at now.
func Expired(createdAt time.Time, ttl time.Duration, now time.Time) bool {
	return now.Sub(createdAt) >= ttl
}

// Remaining is the countdown shown next to a record: ttl minus the whole seconds elapsed, never negative.
func Remaining(createdAt time.Time, ttl time.Duration, now time.Time) time.Duration {
	left := ttl - now.Sub(createdAt).Truncate(time.Second)
	if left < 0 {
		return 0
	}
	return left
}

// FormatRemaining renders a countdown as "3m 5s".
func FormatRemaining(d time.Duration) string {
	sec := int64(d / time.Second)
	return fmt.Sprintf("%dm %ds", sec/60, sec%60)
}

// Timestamp normalises a creation time to what the store keeps: UTC, millisecond precision.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
