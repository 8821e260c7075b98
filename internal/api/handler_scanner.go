package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-cart-backend/internal/scanner"
)

// GetScannerStatus reports the connectivity state.
func (h *Handler) GetScannerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.conn.State()})
}

// ConnectScanner attempts to bring the scanner online. Calling it while
// already connected is harmless.
func (h *Handler) ConnectScanner(c *gin.Context) {
	if err := h.conn.Connect(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "state": h.conn.State()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.conn.State()})
}

// DisconnectScanner takes the scanner offline.
func (h *Handler) DisconnectScanner(c *gin.Context) {
	h.conn.Disconnect()
	c.JSON(http.StatusOK, gin.H{"state": h.conn.State()})
}

type triggerScanRequest struct {
	FolderID string `json:"folder_id"`
}

// TriggerScan runs one scan. The target folder comes from the request
// body, falling back to the active folder. A scan that reads no barcode
// returns 204 with no item.
func (h *Handler) TriggerScan(c *gin.Context) {
	var req triggerScanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	folderID := req.FolderID
	if folderID == "" {
		folderID = h.workflow.ActiveFolder()
	}

	item, err := h.workflow.TriggerScan(c.Request.Context(), folderID)
	switch {
	case errors.Is(err, scanner.ErrNotConnected), errors.Is(err, scanner.ErrNoActiveFolder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scanner.ErrScanInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, scanner.ErrPersistFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case item == nil:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusCreated, item)
	}
}
