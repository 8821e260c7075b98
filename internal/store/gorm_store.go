package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smart-cart-backend/internal/model"
)

// GormStore implements FolderStore and ItemStore against a local database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ListFolders returns all folders, oldest first.
func (s *GormStore) ListFolders(ctx context.Context) ([]model.Folder, error) {
	var folders []model.Folder
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

// GetFolder fetches one folder by id.
func (s *GormStore) GetFolder(ctx context.Context, id string) (*model.Folder, error) {
	var folder model.Folder
	err := s.db.WithContext(ctx).First(&folder, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get folder %s: %w", id, err)
	}
	return &folder, nil
}

// CreateFolder persists a new folder with a fresh identifier.
func (s *GormStore) CreateFolder(ctx context.Context, name string) (*model.Folder, error) {
	folder := model.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&folder).Error; err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return &folder, nil
}

// DeleteFolder removes a folder by id. The folder's items are deliberately
// left in place; aggregation for a deleted folder simply sees zero items.
func (s *GormStore) DeleteFolder(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.Folder{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete folder %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFolderNotFound
	}
	return nil
}

// ListItems returns one folder's items, most recent first.
func (s *GormStore) ListItems(ctx context.Context, folderID string) ([]model.ScannedItem, error) {
	var items []model.ScannedItem
	err := s.db.WithContext(ctx).
		Where("folder_id = ?", folderID).
		Order("timestamp desc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list items for folder %s: %w", folderID, err)
	}
	return items, nil
}

// CreateItem persists one scanned item. The owning folder must exist at
// write time.
func (s *GormStore) CreateItem(ctx context.Context, item model.ScannedItem) (*model.ScannedItem, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Folder{}).Where("id = ?", item.FolderID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("verify folder %s: %w", item.FolderID, err)
	}
	if count == 0 {
		return nil, ErrFolderNotFound
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &item, nil
}

// DeleteItem removes one item by id; deleting an absent id is a no-op.
func (s *GormStore) DeleteItem(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.ScannedItem{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

// ClearItems removes every scanned item. Used on sign-out.
func (s *GormStore) ClearItems(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&model.ScannedItem{}).Error; err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	return nil
}
