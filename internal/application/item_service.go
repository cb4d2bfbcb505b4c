package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/itemshare/service-sharing/internal/domain"
	bookingDomain "github.com/itemshare/service-sharing/internal/domain/booking"
	itemDomain "github.com/itemshare/service-sharing/internal/domain/item"
	userDomain "github.com/itemshare/service-sharing/internal/domain/user"
)

// CreateItemRequest is the request DTO for listing a new item.
type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// UpdateItemRequest is the request DTO for a partial item update.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// AddCommentRequest is the request DTO for commenting on an item.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// ItemDTO is the API response representation of an item listing.
type ItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// BookingBriefDTO is the compact booking view embedded in item responses.
type BookingBriefDTO struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentDTO is the API response representation of an item comment.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDetailDTO is an item with its comments and, for the owner, the last
// and next non-rejected, non-cancelled bookings.
type ItemDetailDTO struct {
	ItemDTO
	LastBooking *BookingBriefDTO `json:"lastBooking,omitempty"`
	NextBooking *BookingBriefDTO `json:"nextBooking,omitempty"`
	Comments    []CommentDTO     `json:"comments"`
}

// ItemService implements use cases for item listings and comments.
type ItemService struct {
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	bookings bookingDomain.BookingRepository
	comments itemDomain.CommentRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	bookings bookingDomain.BookingRepository,
	comments itemDomain.CommentRepository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source used to classify bookings against the
// current moment. Tests use it to pin "now".
func (s *ItemService) WithClock(now func() time.Time) *ItemService {
	s.now = now
	return s
}

// CreateItem lists a new item for the given owner.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if req.Available == nil {
		return nil, domain.NewValidationError("item availability is required")
	}

	itm, err := itemDomain.NewItem(ownerID, req.Name, req.Description, *req.Available)
	if err != nil {
		return nil, err
	}

	if err := s.items.Save(ctx, itm); err != nil {
		return nil, err
	}

	s.logger.Info("item listed",
		zap.Int64("item_id", itm.ID()),
		zap.Int64("owner_id", ownerID),
	)
	result := toItemDTO(itm)
	return &result, nil
}

// UpdateItem applies a partial update; only the owner may update a listing.
func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID int64, req UpdateItemRequest) (*ItemDTO, error) {
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !itm.IsOwnedBy(userID) {
		return nil, domain.NewForbiddenError(fmt.Sprintf(
			"user with id %d is not the owner of item %d", userID, itemID))
	}

	if err := itm.ApplyPatch(req.Name, req.Description, req.Available); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, itm); err != nil {
		return nil, err
	}
	result := toItemDTO(itm)
	return &result, nil
}

// GetItem retrieves one item with its comments. The owner additionally sees
// the item's last and next bookings.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID int64) (*ItemDetailDTO, error) {
	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	detail, err := s.toItemDetail(ctx, itm, itm.IsOwnedBy(userID))
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// GetOwnerItems lists the owner's items with booking info and comments.
func (s *ItemService) GetOwnerItems(ctx context.Context, ownerID int64, from, size int) ([]ItemDetailDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return nil, err
	}

	items, err := s.items.FindByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	details := make([]ItemDetailDTO, len(items))
	for i, itm := range items {
		detail, err := s.toItemDetail(ctx, itm, true)
		if err != nil {
			return nil, err
		}
		details[i] = *detail
	}
	return details, nil
}

// SearchItems finds available items matching the text. A blank query yields
// an empty result, not an error.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}

	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return nil, err
	}

	items, err := s.items.Search(ctx, text, page)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(items))
	for i, itm := range items {
		dtos[i] = toItemDTO(itm)
	}
	return dtos, nil
}

// AddComment posts a comment on an item. Only a user whose APPROVED booking
// of the item has already ended may comment.
func (s *ItemService) AddComment(ctx context.Context, userID, itemID int64, req AddCommentRequest) (*CommentDTO, error) {
	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	itm, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	finished, err := s.bookings.HasFinishedBooking(ctx, itm.ID(), userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	if !finished {
		return nil, domain.NewValidationError(fmt.Sprintf(
			"user with id %d has no finished booking of item %d and cannot comment on it", userID, itemID))
	}

	comment, err := itemDomain.NewComment(itm.ID(), author, req.Text, now)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}

	result := toCommentDTO(comment)
	return &result, nil
}

// --- Helpers ---

func (s *ItemService) toItemDetail(ctx context.Context, itm *itemDomain.Item, withBookings bool) (*ItemDetailDTO, error) {
	comments, err := s.comments.FindByItem(ctx, itm.ID())
	if err != nil {
		return nil, err
	}

	detail := &ItemDetailDTO{
		ItemDTO:  toItemDTO(itm),
		Comments: toCommentDTOs(comments),
	}

	if !withBookings {
		return detail, nil
	}

	active, err := s.bookings.FindActiveByItem(ctx, itm.ID())
	if err != nil {
		return nil, err
	}

	now := s.now()
	var last, next *bookingDomain.Booking
	for _, b := range active {
		if b.Start().Before(now) {
			last = b
		} else if next == nil && b.Start().After(now) {
			next = b
		}
	}
	detail.LastBooking = toBookingBriefDTO(last)
	detail.NextBooking = toBookingBriefDTO(next)
	return detail, nil
}

func toItemDTO(itm *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          itm.ID(),
		Name:        itm.Name(),
		Description: itm.Description(),
		Available:   itm.Available(),
	}
}

func toBookingBriefDTO(b *bookingDomain.Booking) *BookingBriefDTO {
	if b == nil {
		return nil
	}
	return &BookingBriefDTO{
		ID:       b.ID(),
		BookerID: b.Booker().ID(),
		Start:    b.Start(),
		End:      b.End(),
	}
}

func toCommentDTO(c *itemDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: c.Author().Name(),
		Created:    c.Created(),
	}
}

func toCommentDTOs(comments []*itemDomain.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = toCommentDTO(c)
	}
	return dtos
}
