package events

import "time"

// Kafka topics this service produces to and consumes from.
const (
	TopicBookingEvents   = "booking.events"
	TopicBookingCommands = "booking.commands"
)

// Event and command types carried in the CloudEvent envelope.
const (
	BookingRequested       = "booking.requested"
	BookingApproved        = "booking.approved"
	BookingRejected        = "booking.rejected"
	BookingCancelled       = "booking.cancelled"
	BookingCancelRequested = "booking.cancel.requested"
)

// BookingRequestedEvent is published when a new booking is created.
type BookingRequestedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDecidedEvent is published when the owner approves or rejects a
// booking; the event type tells the two apart.
type BookingDecidedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled through the
// external cancellation path.
type BookingCancelledEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CancelBookingCommand asks this service to cancel a booking. It arrives on
// the commands topic from other parts of the platform.
type CancelBookingCommand struct {
	BookingID int64  `json:"booking_id"`
	Reason    string `json:"reason,omitempty"`
}
