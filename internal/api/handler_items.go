package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-cart-backend/internal/model"
)

// GetFolderItems returns one folder's items, most recent first. The
// persisted set is reloaded into the collection so a restart or external
// write never leaves the view stale.
func (h *Handler) GetFolderItems(c *gin.Context) {
	folderID := c.Param("folder_id")

	items, err := h.items.ListItems(c.Request.Context(), folderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load folder items"})
		return
	}

	h.coll.ReplaceFolder(folderID, items)
	if items == nil {
		items = []model.ScannedItem{}
	}
	c.JSON(http.StatusOK, items)
}

// DeleteItem removes one scanned item from persistence and the live
// collection. Deleting an absent item succeeds.
func (h *Handler) DeleteItem(c *gin.Context) {
	itemID := c.Param("item_id")

	if err := h.items.DeleteItem(c.Request.Context(), itemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete item"})
		return
	}

	h.coll.Remove(itemID)
	c.Status(http.StatusNoContent)
}

// ClearItems drops every scanned item, used when the user signs out. The
// active folder selection is cleared along with the data.
func (h *Handler) ClearItems(c *gin.Context) {
	if err := h.items.ClearItems(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear items"})
		return
	}

	h.coll.Clear()
	h.workflow.DeactivateFolder(h.workflow.ActiveFolder())
	c.Status(http.StatusNoContent)
}
