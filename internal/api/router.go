package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"smart-cart-backend/internal/mw"
)

// NewRouter creates and configures the Gin router. rps and burst shape
// the per-client rate limit.
func NewRouter(handler *Handler, rps float64, burst int, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger(log))

	rateLimiter := mw.RateLimiter(rate.Limit(rps), burst)

	// The response cache fronts static content only. Folder contents and
	// analysis are always computed from the live collection.
	cacheStore := cache.New(5*time.Minute, 10*time.Minute)
	caching := mw.Cache(cacheStore, 5*time.Minute)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/scanner/status", handler.GetScannerStatus)
		api.POST("/scanner/connect", handler.ConnectScanner)
		api.POST("/scanner/disconnect", handler.DisconnectScanner)

		api.GET("/folders", handler.ListFolders)
		api.POST("/folders", handler.CreateFolder)
		api.DELETE("/folders/:folder_id", handler.DeleteFolder)
		api.PUT("/folders/:folder_id/activate", handler.ActivateFolder)
		api.GET("/folders/:folder_id/items", handler.GetFolderItems)
		api.GET("/folders/:folder_id/analysis", handler.GetFolderAnalysis)

		api.POST("/scan", handler.TriggerScan)

		api.DELETE("/items/:item_id", handler.DeleteItem)
		api.DELETE("/items", handler.ClearItems)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", caching, handler.GetVAPIDPublicKey)
	}

	return r
}
