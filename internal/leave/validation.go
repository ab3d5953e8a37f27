package leave

import (
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
)

// Proposal is everything the leave rules need to judge a request. It is plain
// data so the rules can run without storage.
type Proposal struct {
	StartDate     time.Time
	EndDate       time.Time
	Today         time.Time
	RemainingDays int
	PendingCount  int
}

// Preview is the outcome of an accepted proposal. The balance is not touched;
// ProjectedRemaining only shows what would be left if it were approved.
type Preview struct {
	DurationDays       int
	ProjectedRemaining int
}

// Validate applies the leave rules in a fixed order: range, past date,
// balance, pending cap. The first violation wins.
func Validate(p Proposal) (Preview, error) {
	start, end, today := DateOf(p.StartDate), DateOf(p.EndDate), DateOf(p.Today)

	if start.After(end) {
		return Preview{}, internal.NewInvalidRangeError(FormatDate(start), FormatDate(end))
	}

	if start.Before(today) {
		return Preview{}, internal.NewPastDateError(FormatDate(start), FormatDate(today))
	}

	duration := DurationDays(start, end)
	if duration > p.RemainingDays {
		return Preview{}, internal.NewInsufficientBalanceError(p.RemainingDays, duration)
	}

	if p.PendingCount >= MaxPendingRequests {
		return Preview{}, internal.NewPendingLimitError(p.PendingCount, MaxPendingRequests)
	}

	return Preview{
		DurationDays:       duration,
		ProjectedRemaining: p.RemainingDays - duration,
	}, nil
}
