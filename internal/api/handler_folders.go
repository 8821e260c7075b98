package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-cart-backend/internal/store"
)

// ListFolders returns all folders.
func (h *Handler) ListFolders(c *gin.Context) {
	folders, err := h.folders.ListFolders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve folders"})
		return
	}
	c.JSON(http.StatusOK, folders)
}

type createFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateFolder creates a new named folder.
func (h *Handler) CreateFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.folders.CreateFolder(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create folder"})
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// DeleteFolder removes a folder. Its items are kept; if it was the active
// scan target, the selection is cleared.
func (h *Handler) DeleteFolder(c *gin.Context) {
	folderID := c.Param("folder_id")

	if err := h.folders.DeleteFolder(c.Request.Context(), folderID); err != nil {
		if errors.Is(err, store.ErrFolderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete folder"})
		return
	}

	h.workflow.DeactivateFolder(folderID)
	c.Status(http.StatusNoContent)
}

// ActivateFolder makes a folder the target for subsequent scans and
// reloads its persisted items into the collection.
func (h *Handler) ActivateFolder(c *gin.Context) {
	folderID := c.Param("folder_id")
	ctx := c.Request.Context()

	if _, err := h.folders.GetFolder(ctx, folderID); err != nil {
		if errors.Is(err, store.ErrFolderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load folder"})
		return
	}

	items, err := h.items.ListItems(ctx, folderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load folder items"})
		return
	}

	h.coll.ReplaceFolder(folderID, items)
	h.workflow.SetActiveFolder(folderID)
	c.JSON(http.StatusOK, gin.H{"activeFolder": folderID, "items": items})
}
