package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/itemshare/service-sharing/internal/domain"
	itemDomain "github.com/itemshare/service-sharing/internal/domain/item"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	OwnerID     int64  `gorm:"index;not null"`
	Name        string `gorm:"not null;size:255"`
	Description string `gorm:"not null;size:2000"`
	Available   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string {
	return "items"
}

// GormItemRepository is the GORM-based implementation of ItemRepository.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Save persists a new item and assigns the generated id.
func (r *GormItemRepository) Save(ctx context.Context, i *itemDomain.Item) error {
	model := &ItemModel{
		OwnerID:     i.OwnerID(),
		Name:        i.Name(),
		Description: i.Description(),
		Available:   i.Available(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	i.SetID(model.ID)
	return nil
}

// Update persists changes to an existing item.
func (r *GormItemRepository) Update(ctx context.Context, i *itemDomain.Item) error {
	result := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", i.ID()).
		Updates(map[string]interface{}{
			"name":        i.Name(),
			"description": i.Description(),
			"available":   i.Available(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Item", i.ID())
	}
	return nil
}

// FindByID retrieves an item by its unique identifier.
func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*itemDomain.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Item", id)
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return toDomainItem(&model), nil
}

// FindByOwner retrieves a page of items listed by the given owner, ordered by id.
func (r *GormItemRepository) FindByOwner(ctx context.Context, ownerID int64, page domain.PageRequest) ([]*itemDomain.Item, error) {
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner items: %w", err)
	}
	return toDomainItems(models), nil
}

// Search retrieves a page of available items whose name or description
// contains the given text, case-insensitive.
func (r *GormItemRepository) Search(ctx context.Context, text string, page domain.PageRequest) ([]*itemDomain.Item, error) {
	pattern := "%" + text + "%"
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("available = true").
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toDomainItems(models), nil
}

func toDomainItem(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(m.ID, m.OwnerID, m.Name, m.Description, m.Available)
}

func toDomainItems(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i, m := range models {
		items[i] = toDomainItem(&m)
	}
	return items
}
