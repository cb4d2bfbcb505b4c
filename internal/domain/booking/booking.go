package booking

import (
	"fmt"
	"time"

	"github.com/itemshare/service-sharing/internal/domain"
	"github.com/itemshare/service-sharing/internal/domain/item"
	"github.com/itemshare/service-sharing/internal/domain/user"
)

// Booking is the aggregate root for the booking domain: one user's request
// to borrow an item for a date range, moving through the status lifecycle.
type Booking struct {
	id     int64
	start  time.Time
	end    time.Time
	status Status
	item   *item.Item
	booker *user.User
}

// ValidateDates checks a requested date range against creation policy. The
// checks run in a fixed order and the first failure wins: missing start,
// missing end, end not strictly after start, end in the past, start in the
// past. Both endpoints must be in the future at creation time.
func ValidateDates(start, end *time.Time, now time.Time) error {
	if start == nil {
		return domain.NewValidationError("invalid start time of booking: start time is not set")
	}
	if end == nil {
		return domain.NewValidationError("invalid end time of booking: end time is not set")
	}
	if !end.After(*start) {
		return domain.NewValidationError("invalid booking time: end time should go after start time")
	}
	if end.Before(now) {
		return domain.NewValidationError("invalid end time of booking: end time should be after current moment")
	}
	if start.Before(now) {
		return domain.NewValidationError("invalid start time of booking: start time should be after current moment")
	}
	return nil
}

// NewBooking creates a new Booking with status WAITING. The booker and item
// must already be resolved; dates are expected to have passed ValidateDates.
// The id is assigned by the store on first save.
func NewBooking(booker *user.User, itm *item.Item, start, end time.Time) (*Booking, error) {
	if itm.IsOwnedBy(booker.ID()) {
		return nil, domain.NewForbiddenError(fmt.Sprintf(
			"trying to book item with id %d by its owner with id %d", itm.ID(), booker.ID()))
	}
	if !itm.Available() {
		return nil, domain.NewValidationError(fmt.Sprintf(
			"trying to book item with id %d: item is unavailable", itm.ID()))
	}
	return &Booking{
		start:  start,
		end:    end,
		status: StatusWaiting,
		item:   itm,
		booker: booker,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(id int64, start, end time.Time, status Status, itm *item.Item, booker *user.User) *Booking {
	return &Booking{
		id:     id,
		start:  start,
		end:    end,
		status: status,
		item:   itm,
		booker: booker,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() int64 { return b.id }

// Start returns the start of the requested date range.
func (b *Booking) Start() time.Time { return b.start }

// End returns the end of the requested date range.
func (b *Booking) End() time.Time { return b.end }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// Item returns the booked item.
func (b *Booking) Item() *item.Item { return b.item }

// Booker returns the user who requested the booking.
func (b *Booking) Booker() *user.User { return b.booker }

// SetID assigns the store-generated identifier after the first save.
func (b *Booking) SetID(id int64) { b.id = id }

// OwnerID returns the id of the booked item's owner.
func (b *Booking) OwnerID() int64 { return b.item.OwnerID() }

// IsParticipant reports whether the given user is the booker or the item owner.
func (b *Booking) IsParticipant(userID int64) bool {
	return b.booker.ID() == userID || b.item.OwnerID() == userID
}

// Decide records the owner's decision, moving WAITING to APPROVED or REJECTED.
func (b *Booking) Decide(approved bool) error {
	if b.status != StatusWaiting {
		return domain.NewInvalidStateError(fmt.Sprintf(
			"booking with id %d is not awaiting decision: status is %s", b.id, b.status))
	}
	if approved {
		b.status = StatusApproved
	} else {
		b.status = StatusRejected
	}
	return nil
}

// Cancel moves the booking to CANCELED if its status still allows it.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCanceled) {
		return domain.NewInvalidStateError(fmt.Sprintf(
			"booking with id %d cannot be cancelled: status is %s", b.id, b.status))
	}
	b.status = StatusCanceled
	return nil
}
