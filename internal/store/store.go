// Package store defines the persistence contracts the core consumes for
// folders and scanned items, and a GORM-backed implementation used when no
// remote service is configured. Components depend on the interfaces so
// tests can substitute fakes.
package store

import (
	"context"
	"errors"

	"smart-cart-backend/internal/model"
)

// ErrFolderNotFound is returned when a folder id does not reference an
// existing folder.
var ErrFolderNotFound = errors.New("folder not found")

// FolderStore manages the user's named collections.
type FolderStore interface {
	ListFolders(ctx context.Context) ([]model.Folder, error)
	GetFolder(ctx context.Context, id string) (*model.Folder, error)
	CreateFolder(ctx context.Context, name string) (*model.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
}

// ItemStore manages scanned items. CreateItem may enrich the stored record
// and returns the persisted form.
type ItemStore interface {
	ListItems(ctx context.Context, folderID string) ([]model.ScannedItem, error)
	CreateItem(ctx context.Context, item model.ScannedItem) (*model.ScannedItem, error)
	DeleteItem(ctx context.Context, id string) error
	ClearItems(ctx context.Context) error
}
