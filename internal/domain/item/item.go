package item

import (
	"github.com/itemshare/service-sharing/internal/domain"
)

// Item is a listing offered for borrowing. The available flag gates new
// bookings: while false the item cannot be booked at all.
type Item struct {
	id          int64
	ownerID     int64
	name        string
	description string
	available   bool
}

// NewItem creates a new Item listing with validated fields. The id is
// assigned by the store on first save.
func NewItem(ownerID int64, name, description string, available bool) (*Item, error) {
	if ownerID <= 0 {
		return nil, domain.NewValidationError("item owner is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("item name is required")
	}
	if description == "" {
		return nil, domain.NewValidationError("item description is required")
	}
	return &Item{
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(id, ownerID int64, name, description string, available bool) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
	}
}

// ID returns the item's unique identifier.
func (i *Item) ID() int64 { return i.id }

// OwnerID returns the id of the user who listed the item.
func (i *Item) OwnerID() int64 { return i.ownerID }

// Name returns the item's name.
func (i *Item) Name() string { return i.name }

// Description returns the item's description.
func (i *Item) Description() string { return i.description }

// Available reports whether the item accepts new bookings.
func (i *Item) Available() bool { return i.available }

// SetID assigns the store-generated identifier after the first save.
func (i *Item) SetID(id int64) { i.id = id }

// IsOwnedBy reports whether the given user listed the item.
func (i *Item) IsOwnedBy(userID int64) bool { return i.ownerID == userID }

// ApplyPatch applies a partial update. Nil fields are left untouched.
func (i *Item) ApplyPatch(name, description *string, available *bool) error {
	if name != nil {
		if *name == "" {
			return domain.NewValidationError("item name is required")
		}
		i.name = *name
	}
	if description != nil {
		if *description == "" {
			return domain.NewValidationError("item description is required")
		}
		i.description = *description
	}
	if available != nil {
		i.available = *available
	}
	return nil
}
