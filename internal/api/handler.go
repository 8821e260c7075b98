// Package api exposes the HTTP surface: scanner control, folder and item
// management, live nutrition analysis and push subscriptions.
package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"smart-cart-backend/internal/collection"
	"smart-cart-backend/internal/scanner"
	"smart-cart-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	folders  store.FolderStore
	items    store.ItemStore
	coll     *collection.Collection
	conn     *scanner.Controller
	workflow *scanner.Workflow
	db       *gorm.DB
	webpush  *webpush.Options
	log      zerolog.Logger
}

// NewHandler creates a new API handler. db is the local database holding
// push subscriptions.
func NewHandler(
	folders store.FolderStore,
	items store.ItemStore,
	coll *collection.Collection,
	conn *scanner.Controller,
	workflow *scanner.Workflow,
	db *gorm.DB,
	webpushOptions *webpush.Options,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		folders:  folders,
		items:    items,
		coll:     coll,
		conn:     conn,
		workflow: workflow,
		db:       db,
		webpush:  webpushOptions,
		log:      log.With().Str("component", "api").Logger(),
	}
}
