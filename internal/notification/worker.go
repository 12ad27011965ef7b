package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"campus-services-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionStore is the slice of the data store the worker pool needs.
type SubscriptionStore interface {
	GetNotification(ctx context.Context, id string) (model.Notification, error)
	ListPushSubscriptions(ctx context.Context, userID string) ([]model.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

// pushPayload is the JSON body delivered to the browser.
type pushPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Link    string `json:"link,omitempty"`
}

// WorkerPool manages a pool of workers fanning notifications out to the
// owner's push subscriptions. Delivery is best effort; the stored
// notification record is the source of truth either way.
type WorkerPool struct {
	size    int
	jobs    chan string
	store   SubscriptionStore
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, store SubscriptionStore, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size), // Buffered channel
		store:   store,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case notificationID := <-wp.jobs:
			wp.deliver(ctx, notificationID)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(notificationID string) {
	wp.jobs <- notificationID
}

// deliver fetches the notification and pushes it to every subscription the
// owning user holds.
func (wp *WorkerPool) deliver(ctx context.Context, notificationID string) {
	n, err := wp.store.GetNotification(ctx, notificationID)
	if err != nil {
		log.Printf("Error fetching notification %s: %v", notificationID, err)
		return
	}

	subscriptions, err := wp.store.ListPushSubscriptions(ctx, n.UserID)
	if err != nil {
		log.Printf("Error fetching subscriptions for user %s: %v", n.UserID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{
		Title:   n.Title,
		Message: n.Message,
		Kind:    string(n.Kind),
		Link:    n.Link,
	})
	if err != nil {
		log.Printf("Error encoding payload for notification %s: %v", notificationID, err)
		return
	}

	log.Printf("Sending %d pushes for notification %s", len(subscriptions), notificationID)
	for _, sub := range subscriptions {
		wp.push(ctx, sub, payload)
	}
}

// push sends a single web push message.
func (wp *WorkerPool) push(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending push to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.DeletePushSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
