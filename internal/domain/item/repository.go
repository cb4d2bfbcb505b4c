package item

import (
	"context"

	"github.com/itemshare/service-sharing/internal/domain"
)

// ItemRepository defines the persistence contract for item listings. It
// doubles as the item catalog the booking engine consults for availability
// and ownership.
type ItemRepository interface {
	// Save persists a new item and assigns its id.
	Save(ctx context.Context, i *Item) error

	// Update persists changes to an existing item.
	Update(ctx context.Context, i *Item) error

	// FindByID retrieves an item by id, or a not-found error.
	FindByID(ctx context.Context, id int64) (*Item, error)

	// FindByOwner retrieves a page of items listed by the given owner,
	// ordered by id.
	FindByOwner(ctx context.Context, ownerID int64, page domain.PageRequest) ([]*Item, error)

	// Search retrieves a page of available items whose name or description
	// contains the given text, case-insensitive.
	Search(ctx context.Context, text string, page domain.PageRequest) ([]*Item, error)
}

// CommentRepository defines the persistence contract for item comments.
type CommentRepository interface {
	// Save persists a new comment and assigns its id.
	Save(ctx context.Context, c *Comment) error

	// FindByItem retrieves all comments on an item ordered by creation time.
	FindByItem(ctx context.Context, itemID int64) ([]*Comment, error)
}
