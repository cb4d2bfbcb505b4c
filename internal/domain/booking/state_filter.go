package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/itemshare/service-sharing/internal/domain"
)

// StateFilter classifies bookings for listing: by position of their date
// range relative to now, or by status.
type StateFilter string

const (
	FilterAll      StateFilter = "ALL"
	FilterCurrent  StateFilter = "CURRENT"
	FilterPast     StateFilter = "PAST"
	FilterFuture   StateFilter = "FUTURE"
	FilterWaiting  StateFilter = "WAITING"
	FilterRejected StateFilter = "REJECTED"
)

// RangeCondition is a predicate over (start, end, status). Nil fields are
// unconstrained; time comparisons are strict.
type RangeCondition struct {
	StartBefore *time.Time
	StartAfter  *time.Time
	EndBefore   *time.Time
	EndAfter    *time.Time
	Status      *Status
}

// filterConditions maps each filter to its condition. The same table serves
// the booker-scoped and the owner-scoped listings.
var filterConditions = map[StateFilter]func(now time.Time) RangeCondition{
	FilterAll: func(time.Time) RangeCondition {
		return RangeCondition{}
	},
	FilterCurrent: func(now time.Time) RangeCondition {
		return RangeCondition{StartBefore: &now, EndAfter: &now}
	},
	FilterPast: func(now time.Time) RangeCondition {
		return RangeCondition{EndBefore: &now}
	},
	FilterFuture: func(now time.Time) RangeCondition {
		return RangeCondition{StartAfter: &now}
	},
	FilterWaiting: func(time.Time) RangeCondition {
		s := StatusWaiting
		return RangeCondition{Status: &s}
	},
	FilterRejected: func(time.Time) RangeCondition {
		s := StatusRejected
		return RangeCondition{Status: &s}
	},
}

// ParseStateFilter converts a case-insensitive string to a StateFilter.
// An unknown value is a validation error surfaced as a 400.
func ParseStateFilter(s string) (StateFilter, error) {
	f := StateFilter(strings.ToUpper(s))
	if _, ok := filterConditions[f]; !ok {
		return "", domain.NewValidationError(fmt.Sprintf("Unknown state: %s", s))
	}
	return f, nil
}

// Condition returns the range condition for this filter evaluated at now.
func (f StateFilter) Condition(now time.Time) RangeCondition {
	return filterConditions[f](now)
}

// Matches evaluates the condition against a booking. The store applies the
// same predicate in SQL; this form serves in-memory callers and tests.
func (c RangeCondition) Matches(b *Booking) bool {
	if c.StartBefore != nil && !b.Start().Before(*c.StartBefore) {
		return false
	}
	if c.StartAfter != nil && !b.Start().After(*c.StartAfter) {
		return false
	}
	if c.EndBefore != nil && !b.End().Before(*c.EndBefore) {
		return false
	}
	if c.EndAfter != nil && !b.End().After(*c.EndAfter) {
		return false
	}
	if c.Status != nil && b.Status() != *c.Status {
		return false
	}
	return true
}
