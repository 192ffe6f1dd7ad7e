package timeframe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

// ErrInvalidTimeFrame is returned for any token outside the closed set
// the resolver accepts. The resolver never guesses.
var ErrInvalidTimeFrame = errors.New("invalid time frame")

const (
	TokenToday            = "today"
	TokenYesterday        = "yesterday"
	TokenLastMonth        = "last_month"
	TokenLastAndThisMonth = "last_month_and_current_month"
	TokenSevenDaysAgo     = "7_days_ago"
	TokenThirtyDaysAgo    = "30_days_ago"
)

// Resolver maps symbolic time-frame tokens to concrete [start, end]
// UNIX-second intervals. All arithmetic happens in a single fixed zone
// so results do not depend on the host machine's timezone.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// Option customizes a Resolver; used by tests to pin the clock.
type Option func(*Resolver)

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// NewResolver returns a resolver fixed to Asia/Ho_Chi_Minh. The zone is
// a compile-time property of the reports, not a deployment setting.
func NewResolver(opts ...Option) *Resolver {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		// The reports are meaningless in any other zone; ICT has no DST
		// so a fixed offset is an exact fallback.
		loc = time.FixedZone("ICT", 7*60*60)
	}
	r := &Resolver{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a token to a closed [start, end] interval. Day tokens
// cover local midnight through one second before the next midnight.
// Month tokens start at the first second of the previous calendar month.
// A bare integer token is an explicit day offset from today.
func (r *Resolver) Resolve(token string) (domain.TimeRange, error) {
	now := r.now().In(r.loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)

	switch strings.ToLower(strings.TrimSpace(token)) {
	case TokenToday:
		return dayRange(midnight), nil
	case TokenYesterday:
		return dayRange(midnight.AddDate(0, 0, -1)), nil
	case TokenSevenDaysAgo:
		return dayRange(midnight.AddDate(0, 0, -7)), nil
	case TokenThirtyDaysAgo:
		return dayRange(midnight.AddDate(0, 0, -30)), nil
	case TokenLastMonth:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, r.loc)
		start := firstOfMonth.AddDate(0, -1, 0)
		return domain.TimeRange{
			Start: start.Unix(),
			End:   firstOfMonth.Add(-time.Second).Unix(),
		}, nil
	case TokenLastAndThisMonth:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, r.loc)
		start := firstOfMonth.AddDate(0, -1, 0)
		end := midnight.AddDate(0, 0, 1).Add(-time.Second)
		return domain.TimeRange{Start: start.Unix(), End: end.Unix()}, nil
	}

	// An explicit day offset, e.g. "3" means three days ago.
	if offset, err := strconv.Atoi(strings.TrimSpace(token)); err == nil {
		if offset < 0 {
			offset = -offset
		}
		return dayRange(midnight.AddDate(0, 0, -offset)), nil
	}

	return domain.TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidTimeFrame, token)
}

func dayRange(start time.Time) domain.TimeRange {
	end := start.AddDate(0, 0, 1).Add(-time.Second)
	return domain.TimeRange{Start: start.Unix(), End: end.Unix()}
}
