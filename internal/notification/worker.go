// Package notification delivers web push notifications for completed scans
// to browsers subscribed to the scan's folder.
package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"smart-cart-backend/internal/model"
)

// Sender sends a single web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender sends through the webpush library.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job describes one completed scan to announce.
type Job struct {
	FolderID    string
	ProductName string
}

// WorkerPool fans scan announcements out to a fixed set of workers so slow
// push endpoints never block the scan workflow.
type WorkerPool struct {
	size    int
	jobs    chan Job
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
	log     zerolog.Logger
}

// NewWorkerPool creates a pool of the given size. Subscriptions are read
// from db at delivery time so late subscribers are included.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options, log zerolog.Logger) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log.With().Str("component", "notification").Logger(),
	}
}

// Start launches the worker goroutines. They run until ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug().Int("worker", id).Msg("notification worker started")
	for {
		select {
		case job := <-wp.jobs:
			wp.notifyFolder(ctx, job)
		case <-ctx.Done():
			wp.log.Debug().Int("worker", id).Msg("notification worker shutting down")
			return
		}
	}
}

// Dispatch queues one announcement.
func (wp *WorkerPool) Dispatch(job Job) {
	wp.jobs <- job
}

// ScanCompleted lets the pool serve as the scan workflow's notifier.
func (wp *WorkerPool) ScanCompleted(folderID, productName string) {
	wp.Dispatch(Job{FolderID: folderID, ProductName: productName})
}

// notifyFolder fetches the folder's subscriptions and pushes the
// announcement to each of them.
func (wp *WorkerPool) notifyFolder(ctx context.Context, job Job) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_folder_mapping sfm ON sfm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sfm.folder_id = ?", job.FolderID).
		Find(&subscriptions).Error
	if err != nil {
		wp.log.Error().Err(err).Str("folder_id", job.FolderID).Msg("could not fetch push subscriptions")
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	message := fmt.Sprintf("%s scanned successfully!", job.ProductName)
	wp.log.Info().
		Str("folder_id", job.FolderID).
		Int("subscriptions", len(subscriptions)).
		Msg("sending scan notifications")

	for _, sub := range subscriptions {
		wp.send(ctx, sub, []byte(message))
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("push send failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.log.Info().Str("endpoint", sub.Endpoint).Msg("subscription expired, deleting")
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			wp.log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to delete expired subscription")
		}
	}
}
