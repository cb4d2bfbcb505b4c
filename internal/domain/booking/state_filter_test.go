package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itemshare/service-sharing/internal/domain"
	"github.com/itemshare/service-sharing/internal/domain/item"
	"github.com/itemshare/service-sharing/internal/domain/user"
)

func TestParseStateFilter(t *testing.T) {
	tests := []struct {
		input   string
		want    StateFilter
		wantErr bool
	}{
		{"ALL", FilterAll, false},
		{"all", FilterAll, false},
		{"Current", FilterCurrent, false},
		{"past", FilterPast, false},
		{"FUTURE", FilterFuture, false},
		{"waiting", FilterWaiting, false},
		{"rejected", FilterRejected, false},
		{"bogus", "", true},
		{"", "", true},
		{"APPROVED", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStateFilter(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func testBooking(t *testing.T, start, end time.Time, status Status) *Booking {
	t.Helper()
	itm := item.Reconstruct(1, 10, "drill", "cordless drill", true)
	booker := user.Reconstruct(20, "booker", "booker@example.com")
	return Reconstruct(1, start, end, status, itm, booker)
}

func TestFilterConditionsClassify(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	past := testBooking(t, now.Add(-10*day), now.Add(-5*day), StatusApproved)
	current := testBooking(t, now.Add(-2*day), now.Add(2*day), StatusApproved)
	future := testBooking(t, now.Add(5*day), now.Add(10*day), StatusWaiting)
	rejected := testBooking(t, now.Add(5*day), now.Add(10*day), StatusRejected)

	tests := []struct {
		filter  StateFilter
		booking *Booking
		matches bool
	}{
		{FilterAll, past, true},
		{FilterAll, current, true},
		{FilterAll, future, true},
		{FilterAll, rejected, true},
		{FilterCurrent, current, true},
		{FilterCurrent, past, false},
		{FilterCurrent, future, false},
		{FilterPast, past, true},
		{FilterPast, current, false},
		{FilterFuture, future, true},
		{FilterFuture, current, false},
		{FilterFuture, past, false},
		{FilterWaiting, future, true},
		{FilterWaiting, current, false},
		{FilterRejected, rejected, true},
		{FilterRejected, future, false},
	}

	for _, tt := range tests {
		cond := tt.filter.Condition(now)
		assert.Equal(t, tt.matches, cond.Matches(tt.booking),
			"filter %s on booking [%s, %s, %s]", tt.filter, tt.booking.Start(), tt.booking.End(), tt.booking.Status())
	}
}

func TestFilterCurrentBoundariesAreStrict(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	cond := FilterCurrent.Condition(now)

	startsNow := testBooking(t, now, now.Add(time.Hour), StatusApproved)
	endsNow := testBooking(t, now.Add(-time.Hour), now, StatusApproved)
	spansNow := testBooking(t, now.Add(-time.Hour), now.Add(time.Hour), StatusApproved)

	assert.False(t, cond.Matches(startsNow), "booking starting exactly at now is not CURRENT")
	assert.False(t, cond.Matches(endsNow), "booking ending exactly at now is not CURRENT")
	assert.True(t, cond.Matches(spansNow))
}
