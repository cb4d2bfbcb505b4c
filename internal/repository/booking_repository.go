package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/itemshare/service-sharing/internal/domain"
	bookingDomain "github.com/itemshare/service-sharing/internal/domain/booking"
	itemDomain "github.com/itemshare/service-sharing/internal/domain/item"
	userDomain "github.com/itemshare/service-sharing/internal/domain/user"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	StartDate time.Time `gorm:"not null;index:idx_bookings_start,sort:desc"`
	EndDate   time.Time `gorm:"not null"`
	ItemID    int64     `gorm:"index;not null"`
	BookerID  int64     `gorm:"index;not null"`
	Status    string    `gorm:"not null;size:20;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Item   ItemModel `gorm:"foreignKey:ItemID"`
	Booker UserModel `gorm:"foreignKey:BookerID"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save persists a new booking and assigns the generated id.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	model := &BookingModel{
		StartDate: b.Start(),
		EndDate:   b.End(),
		ItemID:    b.Item().ID(),
		BookerID:  b.Booker().ID(),
		Status:    string(b.Status()),
	}
	if err := r.db.WithContext(ctx).Omit("Item", "Booker").Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	b.SetID(model.ID)
	return nil
}

// FindByID retrieves a booking by its unique identifier with its item and
// booker resolved.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).
		Joins("Item").
		Joins("Booker").
		Where("bookings.id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByBooker retrieves a page of bookings requested by the given user and
// matching the condition, ordered by start descending.
func (r *GormBookingRepository) FindByBooker(ctx context.Context, bookerID int64, cond bookingDomain.RangeCondition, page domain.PageRequest) ([]*bookingDomain.Booking, error) {
	q := r.bookingQuery(ctx).Where("bookings.booker_id = ?", bookerID)
	return r.findPage(applyRangeCondition(q, cond), page)
}

// FindByOwner retrieves a page of bookings on items listed by the given user
// and matching the condition, ordered by start descending.
func (r *GormBookingRepository) FindByOwner(ctx context.Context, ownerID int64, cond bookingDomain.RangeCondition, page domain.PageRequest) ([]*bookingDomain.Booking, error) {
	q := r.bookingQuery(ctx).Where(`"Item".owner_id = ?`, ownerID)
	return r.findPage(applyRangeCondition(q, cond), page)
}

// UpdateStatus persists a status transition only if the row still holds the
// expected current status.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id int64, from, to bookingDomain.Status) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError(fmt.Sprintf(
			"booking with id %d was modified by another transaction", id))
	}
	return nil
}

// FindActiveByItem retrieves all bookings of an item whose status is neither
// REJECTED nor CANCELED, ordered by start ascending.
func (r *GormBookingRepository) FindActiveByItem(ctx context.Context, itemID int64) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.bookingQuery(ctx).
		Where("bookings.item_id = ?", itemID).
		Where("bookings.status NOT IN ?", []string{
			string(bookingDomain.StatusRejected),
			string(bookingDomain.StatusCanceled),
		}).
		Order("bookings.start_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find item bookings: %w", err)
	}
	return toDomainBookings(models)
}

// HasFinishedBooking reports whether the given user has an APPROVED booking
// of the item that ended before the given moment.
func (r *GormBookingRepository) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, before time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("item_id = ? AND booker_id = ? AND status = ? AND end_date < ?",
			itemID, bookerID, string(bookingDomain.StatusApproved), before).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count finished bookings: %w", err)
	}
	return count > 0, nil
}

// --- Query helpers ---

func (r *GormBookingRepository) bookingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Joins("Item").
		Joins("Booker")
}

func (r *GormBookingRepository) findPage(q *gorm.DB, page domain.PageRequest) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := q.
		Order("bookings.start_date DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	return toDomainBookings(models)
}

// applyRangeCondition translates a state-filter condition into WHERE clauses.
// The same translation serves the booker-scoped and owner-scoped queries.
func applyRangeCondition(q *gorm.DB, cond bookingDomain.RangeCondition) *gorm.DB {
	if cond.StartBefore != nil {
		q = q.Where("bookings.start_date < ?", *cond.StartBefore)
	}
	if cond.StartAfter != nil {
		q = q.Where("bookings.start_date > ?", *cond.StartAfter)
	}
	if cond.EndBefore != nil {
		q = q.Where("bookings.end_date < ?", *cond.EndBefore)
	}
	if cond.EndAfter != nil {
		q = q.Where("bookings.end_date > ?", *cond.EndAfter)
	}
	if cond.Status != nil {
		q = q.Where("bookings.status = ?", string(*cond.Status))
	}
	return q
}

// --- Conversion helpers ---

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	itm := itemDomain.Reconstruct(m.Item.ID, m.Item.OwnerID, m.Item.Name, m.Item.Description, m.Item.Available)
	booker := userDomain.Reconstruct(m.Booker.ID, m.Booker.Name, m.Booker.Email)
	return bookingDomain.Reconstruct(m.ID, m.StartDate, m.EndDate, status, itm, booker), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}
