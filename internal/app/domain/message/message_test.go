package message

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNew(t *testing.T) {
	tests := []struct {
		name      string
		sender    Sender
		primary   string
		secondary string
		wantField string
	}{
		{name: "valid_a", sender: SenderA, primary: "Hi", secondary: "こんにちは"},
		{name: "valid_b", sender: SenderB, primary: "Bye", secondary: "さようなら"},
		{name: "missing_sender", sender: "", primary: "Hi", secondary: "こんにちは", wantField: "sender"},
		{name: "unknown_sender", sender: "C", primary: "Hi", secondary: "こんにちは", wantField: "sender"},
		{name: "missing_primary", sender: SenderA, primary: "", secondary: "こんにちは", wantField: "textPrimary"},
		{name: "blank_primary", sender: SenderA, primary: "   ", secondary: "こんにちは", wantField: "textPrimary"},
		{name: "missing_secondary", sender: SenderB, primary: "Hi", secondary: "", wantField: "textSecondary"},
		{name: "zero_width_secondary", sender: SenderB, primary: "Hi", secondary: "\u200b\u200d\ufeff", wantField: "textSecondary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNew(tt.sender, tt.primary, tt.secondary)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestBlank(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "", want: true},
		{in: " \t\n", want: true},
		{in: "\u200b\u2060", want: true},
		{in: "\u3164", want: true},
		{in: "a\u200b", want: false},
		{in: "やっほー", want: false},
		{in: "👍\ufe0f", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Blank(tt.in), "%q", tt.in)
	}
}

func TestExpired(t *testing.T) {
	created := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	ttl := 3 * time.Minute

	assert.False(t, Expired(created, ttl, created))
	assert.False(t, Expired(created, ttl, created.Add(ttl-time.Millisecond)))
	assert.True(t, Expired(created, ttl, created.Add(ttl)))
	assert.True(t, Expired(created, ttl, created.Add(time.Hour)))
}

func TestRemaining(t *testing.T) {
	created := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	ttl := 30 * time.Minute

	tests := []struct {
		name    string
		elapsed time.Duration
		want    time.Duration
		label   string
	}{
		{name: "fresh", elapsed: 0, want: 30 * time.Minute, label: "30m 0s"},
		{name: "partial_second_floors_elapsed", elapsed: 1500 * time.Millisecond, want: 30*time.Minute - time.Second, label: "29m 59s"},
		{name: "midway", elapsed: 17*time.Minute + 55*time.Second, want: 12*time.Minute + 5*time.Second, label: "12m 5s"},
		{name: "exactly_expired", elapsed: ttl, want: 0, label: "0m 0s"},
		{name: "long_gone", elapsed: 2 * time.Hour, want: 0, label: "0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remaining(created, ttl, created.Add(tt.elapsed))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.label, FormatRemaining(got))
		})
	}
}

func TestTimestamp(t *testing.T) {
	in := time.Date(2026, 10, 16, 21, 0, 0, 123456789, time.FixedZone("JST", 9*3600))
	got := Timestamp(in)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123000000, got.Nanosecond())
	assert.True(t, in.Truncate(time.Millisecond).Equal(got))
}
