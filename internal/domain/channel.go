package domain

import (
	"fmt"
	"strings"
)

// Channel is the distribution context a product is sold through.
type Channel string

const (
	ChannelStandard Channel = "standard"
	ChannelStorytel Channel = "storytel"
	ChannelSnack    Channel = "snack"
)

// ParseChannel parses a channel name; the empty string selects the standard channel.
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return ChannelStandard, nil
	case ChannelStandard, ChannelStorytel, ChannelSnack:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown channel %q", ErrInvalidRequest, s)
}

// RecordQuery selects the records a document is composed from.
type RecordQuery struct {
	Week      int
	Channel   Channel
	VeganOnly bool
}

// Validate checks the query parameters.
func (q RecordQuery) Validate() error {
	if q.Week < 1 || q.Week > 53 {
		return fmt.Errorf("%w: week number must be between 1 and 53, got %d", ErrInvalidRequest, q.Week)
	}
	switch q.Channel {
	case ChannelStandard, ChannelStorytel, ChannelSnack:
		return nil
	}
	return fmt.Errorf("%w: unknown channel %q", ErrInvalidRequest, q.Channel)
}

// Matches reports whether a record belongs to the query result.
//
//	standard: week matches AND NOT isOnlyForStorytel AND NOT isSnack
//	storytel: week matches AND (isForStorytel OR isOnlyForStorytel) AND NOT isSnack
//	snack:    week matches AND isSnack
//
// VeganOnly additionally requires isVegan in every channel. Stores translate the same
// rules into their own query language; this predicate is the reference.
func (q RecordQuery) Matches(p *ProductRecord) bool {
	if p.WeekNumber != q.Week {
		return false
	}
	if q.VeganOnly && !p.IsVegan {
		return false
	}
	switch q.Channel {
	case ChannelStandard:
		return !p.IsOnlyForStorytel && !p.IsSnack
	case ChannelStorytel:
		return (p.IsForStorytel || p.IsOnlyForStorytel) && !p.IsSnack
	case ChannelSnack:
		return p.IsSnack
	}
	return false
}
