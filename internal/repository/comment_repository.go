package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	itemDomain "github.com/itemshare/service-sharing/internal/domain/item"
	userDomain "github.com/itemshare/service-sharing/internal/domain/user"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ItemID    int64     `gorm:"index;not null"`
	AuthorID  int64     `gorm:"not null"`
	Text      string    `gorm:"not null;size:2000"`
	CreatedAt time.Time `gorm:"not null"`

	Author UserModel `gorm:"foreignKey:AuthorID"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string {
	return "comments"
}

// GormCommentRepository is the GORM-based implementation of CommentRepository.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Save persists a new comment and assigns the generated id.
func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) error {
	model := &CommentModel{
		ItemID:    c.ItemID(),
		AuthorID:  c.Author().ID(),
		Text:      c.Text(),
		CreatedAt: c.Created(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	c.SetID(model.ID)
	return nil
}

// FindByItem retrieves all comments on an item ordered by creation time.
func (r *GormCommentRepository) FindByItem(ctx context.Context, itemID int64) ([]*itemDomain.Comment, error) {
	var models []CommentModel
	if err := r.db.WithContext(ctx).
		Joins("Author").
		Where("comments.item_id = ?", itemID).
		Order("comments.created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find item comments: %w", err)
	}
	comments := make([]*itemDomain.Comment, len(models))
	for i, m := range models {
		author := userDomain.Reconstruct(m.Author.ID, m.Author.Name, m.Author.Email)
		comments[i] = itemDomain.ReconstructComment(m.ID, m.ItemID, author, m.Text, m.CreatedAt)
	}
	return comments, nil
}
