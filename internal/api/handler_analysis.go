package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-cart-backend/internal/nutrition"
)

// folderStats summarizes one folder for the analysis view.
type folderStats struct {
	TotalItems    int    `json:"totalItems"`
	TotalCalories int    `json:"totalCalories"`
	TotalProtein  string `json:"totalProtein"`
}

// GetFolderAnalysis computes nutrition totals, macro percentages and
// insights for one folder from the live collection. Nothing is cached:
// the response always reflects the items at the moment of the call.
func (h *Handler) GetFolderAnalysis(c *gin.Context) {
	folderID := c.Param("folder_id")

	items := h.coll.ForFolder(folderID)
	totals, percentages := nutrition.Aggregate(items)
	insights := nutrition.Evaluate(totals, len(items))

	c.JSON(http.StatusOK, gin.H{
		"folderId":    folderID,
		"totals":      totals,
		"percentages": percentages,
		"insights":    insights,
		"stats": folderStats{
			TotalItems:    len(items),
			TotalCalories: int(totals.Calories),
			TotalProtein:  fmt.Sprintf("%gg", totals.Protein),
		},
	})
}
