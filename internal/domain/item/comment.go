package item

import (
	"time"

	"github.com/itemshare/service-sharing/internal/domain"
	"github.com/itemshare/service-sharing/internal/domain/user"
)

// Comment is feedback left on an item by a user who finished a borrowing.
type Comment struct {
	id      int64
	itemID  int64
	author  *user.User
	text    string
	created time.Time
}

// NewComment creates a new Comment with validated fields.
func NewComment(itemID int64, author *user.User, text string, created time.Time) (*Comment, error) {
	if text == "" {
		return nil, domain.NewValidationError("comment text is required")
	}
	return &Comment{
		itemID:  itemID,
		author:  author,
		text:    text,
		created: created,
	}, nil
}

// ReconstructComment rebuilds a Comment from persistence data.
func ReconstructComment(id, itemID int64, author *user.User, text string, created time.Time) *Comment {
	return &Comment{id: id, itemID: itemID, author: author, text: text, created: created}
}

// ID returns the comment's unique identifier.
func (c *Comment) ID() int64 { return c.id }

// ItemID returns the id of the commented item.
func (c *Comment) ItemID() int64 { return c.itemID }

// Author returns the comment's author.
func (c *Comment) Author() *user.User { return c.author }

// Text returns the comment text.
func (c *Comment) Text() string { return c.text }

// Created returns the creation timestamp.
func (c *Comment) Created() time.Time { return c.created }

// SetID assigns the store-generated identifier after the first save.
func (c *Comment) SetID(id int64) { c.id = id }
