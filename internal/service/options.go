package service

import (
	"context"
	"time"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/models"
)

const (
	// DefaultSessionTTL is how long an idle navigation session is kept.
	DefaultSessionTTL = 30 * time.Minute

	// DefaultMaxSessions caps the number of live navigation sessions.
	DefaultMaxSessions = 1024
)

// Option configures GoalService and NavigationService.
type Option func(*options)

type options struct {
	defaultMember models.Member
	sessionTTL    time.Duration
	maxSessions   int
}

// WithDefaultMember sets the profile of the member that requests without an
// X-Member-Id header act as. It names that member until a goal holds a
// profile for them.
func WithDefaultMember(m models.Member) Option {
	return func(o *options) { o.defaultMember = m }
}

// WithSessionTTL sets how long an idle navigation session survives.
func WithSessionTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sessionTTL = d
		}
	}
}

// WithMaxSessions caps the live navigation sessions. The least recently used
// session is dropped when the cap is reached.
func WithMaxSessions(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSessions = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		sessionTTL:  DefaultSessionTTL,
		maxSessions: DefaultMaxSessions,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// lookupMember finds the member's profile in any goal. Otherwise the default
// member's profile is used when the IDs match, and anyone else is named after
// their ID.
func (o options) lookupMember(ctx context.Context, l *ledger.Ledger, memberID string) models.Member {
	goals, err := l.ListGoals(ctx)
	if err == nil {
		for _, g := range goals {
			if m := g.Member(memberID); m != nil {
				return models.Member{ID: m.ID, Name: m.Name, Initials: m.Initials, Color: m.Color}
			}
		}
	}
	if memberID == o.defaultMember.ID && o.defaultMember.Name != "" {
		return o.defaultMember
	}
	return models.Member{ID: memberID, Name: memberID}
}
