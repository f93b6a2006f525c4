package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/safe-connect/sos-api/databases"
	"github.com/safe-connect/sos-api/models"
)

const (
	expoPushURL    = "https://exp.host/--/api/v2/push/send"
	expoBatchLimit = 100
)

// DeliveryResult reports the best-effort outcome of one notification request
type DeliveryResult struct {
	Delivered bool
	Reason    string
}

// Notifier is the external push-delivery capability the dispatcher invokes.
// Implementations must never block case state transitions on delivery and
// must be safe for concurrent use.
type Notifier interface {
	Deliver(ctx context.Context, userID primitive.ObjectID, title, body string, data map[string]string) DeliveryResult
}

// ExpoPushMessage represents a single push notification message for the Expo push API
type ExpoPushMessage struct {
	To        string            `json:"to"`
	Title     string            `json:"title,omitempty"`
	Body      string            `json:"body,omitempty"`
	Sound     string            `json:"sound,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	Priority  string            `json:"priority,omitempty"`
	ChannelID string            `json:"channelId,omitempty"`
}

type expoPushResponse struct {
	Data []struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Details struct {
			Error string `json:"error"`
		} `json:"details"`
	} `json:"data"`
}

// ExpoNotifier delivers pushes through the Expo push gateway. It resolves
// the recipient's registered devices, prunes tokens the gateway rejects as
// unregistered, and records an audit document per delivered notification.
type ExpoNotifier struct {
	Devices       databases.DeviceDatabase
	Notifications databases.NotificationDatabase
	Client        *http.Client
	URL           string
}

// NewExpoNotifier creates a notifier with a sane request timeout
func NewExpoNotifier(devices databases.DeviceDatabase, notifications databases.NotificationDatabase) *ExpoNotifier {
	return &ExpoNotifier{
		Devices:       devices,
		Notifications: notifications,
		Client:        &http.Client{Timeout: 15 * time.Second},
		URL:           expoPushURL,
	}
}

// Deliver sends the notification to every device the user registered.
// Failures are reported in the result, never returned as errors.
func (n *ExpoNotifier) Deliver(ctx context.Context, userID primitive.ObjectID, title, body string, data map[string]string) DeliveryResult {
	devices, err := n.Devices.FindByUserID(ctx, userID)
	if err != nil {
		zap.S().Errorw("failed to look up devices for push delivery",
			"userId", userID.Hex(),
			"error", err,
		)
		return DeliveryResult{Delivered: false, Reason: "device lookup failed"}
	}
	if len(devices) == 0 {
		zap.S().Debugf("no devices found for user: %v", userID.Hex())
		return DeliveryResult{Delivered: false, Reason: "no devices registered"}
	}

	var messages []ExpoPushMessage
	for _, device := range devices {
		messages = append(messages, ExpoPushMessage{
			To:        device.PushToken,
			Title:     title,
			Body:      body,
			Sound:     "default",
			Data:      data,
			Priority:  "high",
			ChannelID: "sos_emergency",
		})
	}

	delivered := 0
	for i := 0; i < len(messages); i += expoBatchLimit {
		end := i + expoBatchLimit
		if end > len(messages) {
			end = len(messages)
		}
		batch := messages[i:end]

		sent, err := n.sendBatch(ctx, batch)
		if err != nil {
			zap.S().Errorf("failed to send push batch (tokens %d-%d): %v", i, end-1, err)
			continue
		}
		delivered += sent
	}

	if delivered == 0 {
		return DeliveryResult{Delivered: false, Reason: "all deliveries failed"}
	}

	notificationType := data["type"]
	if notificationType == "" {
		notificationType = "GENERAL"
	}
	err = n.Notifications.InsertOne(ctx, models.Notification{
		UserID:      userID,
		Type:        notificationType,
		Title:       title,
		Body:        body,
		Data:        data,
		DeliveredAt: time.Now().UTC(),
	})
	if err != nil {
		// delivery already happened, only the audit record is lost
		zap.S().Errorw("failed to record notification", "userId", userID.Hex(), "error", err)
	}

	return DeliveryResult{Delivered: true}
}

func (n *ExpoNotifier) sendBatch(ctx context.Context, batch []ExpoPushMessage) (int, error) {
	jsonData, err := json.Marshal(batch)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal push messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read push response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed expoPushResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// gateway accepted the batch, treat as delivered
		return len(batch), nil
	}

	sent := 0
	for i, ticket := range parsed.Data {
		if ticket.Status == "ok" {
			sent++
			continue
		}
		zap.S().Warnw("push delivery rejected",
			"reason", ticket.Message,
			"error", ticket.Details.Error,
		)
		if ticket.Details.Error == "DeviceNotRegistered" && i < len(batch) {
			if err := n.Devices.DeleteByPushToken(ctx, batch[i].To); err != nil {
				zap.S().Errorf("failed to remove invalid token: %v", err)
			}
		}
	}
	return sent, nil
}
