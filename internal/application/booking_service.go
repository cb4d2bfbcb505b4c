package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/itemshare/service-sharing/internal/domain"
	bookingDomain "github.com/itemshare/service-sharing/internal/domain/booking"
	itemDomain "github.com/itemshare/service-sharing/internal/domain/item"
	userDomain "github.com/itemshare/service-sharing/internal/domain/user"
	"github.com/itemshare/service-sharing/internal/events"
	"github.com/itemshare/service-sharing/internal/kafka"
)

const eventSource = "service-sharing"

// EventPublisher publishes CloudEvents; satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ItemID int64      `json:"itemId" binding:"required"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// BookedItemDTO is the item snapshot inside a booking view.
type BookedItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// BookerDTO is the booker snapshot inside a booking view.
type BookerDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     int64         `json:"id"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Status string        `json:"status"`
	Item   BookedItemDTO `json:"item"`
	Booker BookerDTO     `json:"booker"`
}

// BookingService orchestrates the booking lifecycle: creation, the owner's
// decision, retrieval and the state-filtered listings. It holds no state
// between calls.
type BookingService struct {
	bookings bookingDomain.BookingRepository
	users    userDomain.UserRepository
	items    itemDomain.ItemRepository
	producer EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	items itemDomain.ItemRepository,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		users:    users,
		items:    items,
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source used to classify and validate
// bookings. Tests use it to pin the current moment.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// CreateBooking validates and persists a new booking request with status
// WAITING. The booker must exist, must not own the item, and the item must
// be available; the date range must lie in the future.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, req CreateBookingRequest) (*BookingDTO, error) {
	if err := bookingDomain.ValidateDates(req.Start, req.End, s.now()); err != nil {
		return nil, err
	}

	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	itm, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	b, err := bookingDomain.NewBooking(booker, itm, *req.Start, *req.End)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", b.ID()),
		zap.Int64("item_id", itm.ID()),
		zap.Int64("booker_id", bookerID),
	)

	s.publishEvent(ctx, events.BookingRequested, b.ID(), events.BookingRequestedEvent{
		BookingID:  b.ID(),
		ItemID:     itm.ID(),
		BookerID:   bookerID,
		OwnerID:    itm.OwnerID(),
		Start:      b.Start(),
		End:        b.End(),
		OccurredAt: s.now().UTC(),
	})

	result := toBookingDTO(b)
	return &result, nil
}

// ApproveBooking records the item owner's decision on a WAITING booking,
// moving it to APPROVED or REJECTED exactly once. The status write is a
// compare-and-set so concurrent decisions cannot both win.
func (s *BookingService) ApproveBooking(ctx context.Context, actingUserID, bookingID int64, approved bool) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.OwnerID() != actingUserID {
		return nil, domain.NewForbiddenError(fmt.Sprintf(
			"user with id %d is not the owner of the item booked in booking %d", actingUserID, bookingID))
	}

	if err := b.Decide(approved); err != nil {
		return nil, err
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, bookingDomain.StatusWaiting, b.Status()); err != nil {
		return nil, err
	}

	eventType := events.BookingApproved
	if !approved {
		eventType = events.BookingRejected
	}
	s.publishEvent(ctx, eventType, b.ID(), events.BookingDecidedEvent{
		BookingID:  b.ID(),
		ItemID:     b.Item().ID(),
		BookerID:   b.Booker().ID(),
		OwnerID:    b.OwnerID(),
		Status:     b.Status().String(),
		OccurredAt: s.now().UTC(),
	})

	result := toBookingDTO(b)
	return &result, nil
}

// GetBooking retrieves a single booking for a participant. A requester who
// is neither the booker nor the item owner gets a not-found-class error.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !b.IsParticipant(userID) {
		return nil, domain.NewForbiddenError(fmt.Sprintf(
			"user with id %d is not the booker and not the item owner of booking %d", userID, bookingID))
	}

	result := toBookingDTO(b)
	return &result, nil
}

// GetBookerBookings lists bookings requested by the user, classified by the
// state filter, newest start first.
func (s *BookingService) GetBookerBookings(ctx context.Context, userID int64, state string, from, size int) ([]BookingDTO, error) {
	filter, page, err := s.listParams(ctx, userID, state, from, size)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByBooker(ctx, userID, filter.Condition(s.now()), page)
	if err != nil {
		return nil, fmt.Errorf("failed to list booker bookings: %w", err)
	}
	return toBookingDTOs(bookings), nil
}

// GetOwnerBookings lists bookings on items the user has listed, classified
// by the state filter, newest start first.
func (s *BookingService) GetOwnerBookings(ctx context.Context, userID int64, state string, from, size int) ([]BookingDTO, error) {
	filter, page, err := s.listParams(ctx, userID, state, from, size)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByOwner(ctx, userID, filter.Condition(s.now()), page)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner bookings: %w", err)
	}
	return toBookingDTOs(bookings), nil
}

// CancelBooking moves a booking to CANCELED on behalf of the external
// cancellation path. Already-decided terminal bookings reject the cancel.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64, reason string) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	prev := b.Status()
	if err := b.Cancel(); err != nil {
		return nil, err
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, prev, bookingDomain.StatusCanceled); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.String("reason", reason),
	)

	s.publishEvent(ctx, events.BookingCancelled, b.ID(), events.BookingCancelledEvent{
		BookingID:  b.ID(),
		ItemID:     b.Item().ID(),
		BookerID:   b.Booker().ID(),
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	})

	result := toBookingDTO(b)
	return &result, nil
}

// --- Helpers ---

func (s *BookingService) listParams(ctx context.Context, userID int64, state string, from, size int) (bookingDomain.StateFilter, domain.PageRequest, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return "", domain.PageRequest{}, err
	}

	filter, err := bookingDomain.ParseStateFilter(state)
	if err != nil {
		return "", domain.PageRequest{}, err
	}

	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return "", domain.PageRequest{}, err
	}
	return filter, page, nil
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, bookingID int64, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	key := strconv.FormatInt(bookingID, 10)
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(b *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:     b.ID(),
		Start:  b.Start(),
		End:    b.End(),
		Status: b.Status().String(),
		Item: BookedItemDTO{
			ID:          b.Item().ID(),
			Name:        b.Item().Name(),
			Description: b.Item().Description(),
			Available:   b.Item().Available(),
		},
		Booker: BookerDTO{
			ID:    b.Booker().ID(),
			Name:  b.Booker().Name(),
			Email: b.Booker().Email(),
		},
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	return dtos
}
