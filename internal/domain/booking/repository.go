package booking

import (
	"context"
	"time"

	"github.com/itemshare/service-sharing/internal/domain"
)

// BookingRepository defines the persistence contract for bookings. Range
// queries return bookings with their item and booker resolved, ordered by
// start descending, paginated at the query level.
type BookingRepository interface {
	// Save persists a new booking and assigns its id.
	Save(ctx context.Context, b *Booking) error

	// FindByID retrieves a booking by id with item and booker resolved,
	// or a not-found error.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByBooker retrieves a page of bookings requested by the given user
	// and matching the condition, ordered by start descending.
	FindByBooker(ctx context.Context, bookerID int64, cond RangeCondition, page domain.PageRequest) ([]*Booking, error)

	// FindByOwner retrieves a page of bookings on items listed by the given
	// user and matching the condition, ordered by start descending.
	FindByOwner(ctx context.Context, ownerID int64, cond RangeCondition, page domain.PageRequest) ([]*Booking, error)

	// UpdateStatus persists a status transition as a compare-and-set: the
	// row is written only if its status still equals from. A lost race
	// surfaces as a conflict error.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error

	// FindActiveByItem retrieves all bookings of an item whose status is
	// neither REJECTED nor CANCELED, ordered by start ascending. This feeds
	// the item display's last/next booking fields.
	FindActiveByItem(ctx context.Context, itemID int64) ([]*Booking, error)

	// HasFinishedBooking reports whether the given user has an APPROVED
	// booking of the item that ended before the given moment.
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, before time.Time) (bool, error)
}
