package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/lib/pq"

	"trip-api/models"
)

// PushService broadcasts web-push notifications to every registered
// subscription, signed with the household's VAPID keys.
type PushService struct {
	db              *sql.DB
	vapidPublicKey  string
	vapidPrivateKey string
	subject         string
}

func NewPushService(db *sql.DB) *PushService {
	subject := os.Getenv("VAPID_SUBJECT")
	if subject == "" {
		subject = "mailto:example@example.com"
	}
	return &PushService{
		db:              db,
		vapidPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		vapidPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		subject:         subject,
	}
}

// Configured reports whether VAPID keys are present. Without them push
// endpoints fail with a clear message while the rest of the app keeps
// working.
func (s *PushService) Configured() bool {
	return s.vapidPublicKey != "" && s.vapidPrivateKey != ""
}

// SendResult reports the outcome of one broadcast.
type SendResult struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// SendToAll delivers payload to every subscription concurrently. Failures
// are isolated per subscription; endpoints reporting 404/410 are deleted
// as a side effect.
func (s *PushService) SendToAll(ctx context.Context, payload models.NotificationPayload) (SendResult, error) {
	if !s.Configured() {
		return SendResult{}, fmt.Errorf("VAPID keys not configured")
	}

	subs, err := s.listSubscriptions(ctx)
	if err != nil {
		return SendResult{}, fmt.Errorf("list subscriptions: %w", err)
	}

	message, err := json.Marshal(payload)
	if err != nil {
		return SendResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	var (
		mu       sync.Mutex
		result   SendResult
		expired  []string
		wg       sync.WaitGroup
	)

	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()

			resp, err := webpush.SendNotificationWithContext(ctx, message, &webpush.Subscription{
				Endpoint: sub.Endpoint,
				Keys: webpush.Keys{
					P256dh: sub.P256dh,
					Auth:   sub.Auth,
				},
			}, &webpush.Options{
				Subscriber:      s.subject,
				VAPIDPublicKey:  s.vapidPublicKey,
				VAPIDPrivateKey: s.vapidPrivateKey,
				TTL:             3600,
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("failed to send to %s: %v", truncateEndpoint(sub.Endpoint), err))
				return
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
				result.Failed++
				expired = append(expired, sub.Endpoint)
			case resp.StatusCode >= 400:
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("push service returned %d for %s", resp.StatusCode, truncateEndpoint(sub.Endpoint)))
			default:
				result.Sent++
			}
		}(sub)
	}

	wg.Wait()

	if len(expired) > 0 {
		if err := s.deleteSubscriptions(ctx, expired); err != nil {
			log.Printf("⚠️ Failed to clean up %d expired subscriptions: %v", len(expired), err)
		} else {
			log.Printf("🧹 Removed %d expired push subscriptions", len(expired))
		}
	}

	return result, nil
}

func (s *PushService) listSubscriptions(ctx context.Context) ([]models.PushSubscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, endpoint, p256dh, auth, user_agent, created_at
		FROM push_subscriptions
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.PushSubscription
	for rows.Next() {
		var sub models.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.UserAgent, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *PushService) deleteSubscriptions(ctx context.Context, endpoints []string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM push_subscriptions
		WHERE endpoint = ANY($1)
	`, pq.Array(endpoints))
	return err
}

func truncateEndpoint(endpoint string) string {
	if len(endpoint) > 50 {
		return endpoint[:50] + "..."
	}
	return endpoint
}
