package integrations

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrWebhookNotFound = errors.New("webhook not found")
	ErrAPIKeyNotFound  = errors.New("api key not found")
	ErrInvalidAPIKey   = errors.New("invalid api key")
)

type IntegrationService struct {
	db     *gorm.DB
	cfg    *config.Config
	client *http.Client
}

func NewIntegrationService(db *gorm.DB, cfg *config.Config) *IntegrationService {
	return &IntegrationService{
		db:  db,
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
	}
}

// --- Webhooks ---

type CreateWebhookInput struct {
	TargetURL string   `json:"target_url"`
	Events    []string `json:"events"`
}

func (s *IntegrationService) CreateWebhook(userID uuid.UUID, input *CreateWebhookInput) (*Webhook, string, error) {
	parsed, err := url.Parse(input.TargetURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, "", errors.New("target_url must be a valid http(s) URL")
	}
	if len(input.Events) == 0 {
		return nil, "", errors.New("at least one event is required")
	}
	for _, event := range input.Events {
		if !webhookEvents[event] {
			return nil, "", fmt.Errorf("unknown event: %s", event)
		}
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, "", fmt.Errorf("failed to generate secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	eventsJSON, _ := json.Marshal(input.Events)
	webhook := Webhook{
		ID:        uuid.New(),
		UserID:    userID,
		TargetURL: input.TargetURL,
		Events:    datatypes.JSON(eventsJSON),
		Secret:    secret,
		IsActive:  true,
	}
	if err := s.db.Create(&webhook).Error; err != nil {
		return nil, "", err
	}

	// The secret is returned once so the receiver can verify signatures.
	return &webhook, secret, nil
}

func (s *IntegrationService) ListWebhooks(userID uuid.UUID) ([]Webhook, error) {
	var webhooks []Webhook
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&webhooks).Error
	return webhooks, err
}

func (s *IntegrationService) DeleteWebhook(userID, webhookID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", webhookID, userID).Delete(&Webhook{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWebhookNotFound
	}
	return nil
}

func (s *IntegrationService) ListDeliveries(userID, webhookID uuid.UUID, limit int) ([]WebhookDelivery, error) {
	var webhook Webhook
	if err := s.db.Where("id = ? AND user_id = ?", webhookID, userID).First(&webhook).Error; err != nil {
		return nil, ErrWebhookNotFound
	}

	var deliveries []WebhookDelivery
	err := s.db.Where("webhook_id = ?", webhookID).
		Order("created_at DESC").
		Limit(limit).
		Find(&deliveries).Error
	return deliveries, err
}

// Sign computes the hex HMAC-SHA256 signature sent in X-Webhook-Signature.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Dispatch fans the event out to every active webhook subscribed to it.
// Delivery runs in the background; failures are retried up to the
// configured attempt limit.
func (s *IntegrationService) Dispatch(event string, payload map[string]interface{}) {
	var webhooks []Webhook
	if err := s.db.Where("is_active = ?", true).Find(&webhooks).Error; err != nil {
		slog.Error("webhook dispatch query failed", "event", event, "error", err)
		return
	}

	for _, webhook := range webhooks {
		var events []string
		if err := json.Unmarshal(webhook.Events, &events); err != nil {
			continue
		}
		subscribed := false
		for _, e := range events {
			if e == event {
				subscribed = true
				break
			}
		}
		if !subscribed {
			continue
		}

		go s.deliver(webhook, event, payload)
	}
}

func (s *IntegrationService) deliver(webhook Webhook, event string, payload map[string]interface{}) {
	body, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"data":      payload,
	})
	if err != nil {
		return
	}

	delivery := WebhookDelivery{
		ID:        uuid.New(),
		WebhookID: webhook.ID,
		Event:     event,
	}

	signature := Sign(webhook.Secret, body)

	for attempt := 1; attempt <= s.cfg.WebhookMaxAttempts; attempt++ {
		delivery.AttemptCount = attempt

		req, err := http.NewRequest(http.MethodPost, webhook.TargetURL, bytes.NewReader(body))
		if err != nil {
			delivery.Error = err.Error()
			break
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Webhook-Event", event)
		req.Header.Set("X-Webhook-Signature", signature)

		resp, err := s.client.Do(req)
		if err != nil {
			delivery.Error = err.Error()
		} else {
			delivery.StatusCode = resp.StatusCode
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				now := time.Now()
				delivery.Success = true
				delivery.Error = ""
				delivery.DeliveredAt = &now
				break
			}
			delivery.Error = fmt.Sprintf("received status %d", resp.StatusCode)
		}

		if attempt < s.cfg.WebhookMaxAttempts {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	if err := s.db.Create(&delivery).Error; err != nil {
		slog.Error("failed to record webhook delivery", "webhook_id", webhook.ID.String(), "error", err)
	}
	if !delivery.Success {
		slog.Error("webhook delivery failed", "webhook_id", webhook.ID.String(),
			"event", event, "attempts", delivery.AttemptCount, "error", delivery.Error)
	}
}

// --- API keys ---

func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// CreateAPIKey generates a key and returns the raw value once.
func (s *IntegrationService) CreateAPIKey(userID uuid.UUID, name string) (*APIKey, string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", errors.New("name is required")
	}

	rawBytes := make([]byte, 24)
	if _, err := rand.Read(rawBytes); err != nil {
		return nil, "", fmt.Errorf("failed to generate key: %w", err)
	}
	rawKey := "pk_" + hex.EncodeToString(rawBytes)

	apiKey := APIKey{
		ID:      uuid.New(),
		UserID:  userID,
		Name:    strings.TrimSpace(name),
		KeyHash: hashKey(rawKey),
		Prefix:  rawKey[:10],
	}
	if err := s.db.Create(&apiKey).Error; err != nil {
		return nil, "", err
	}

	return &apiKey, rawKey, nil
}

func (s *IntegrationService) ListAPIKeys(userID uuid.UUID) ([]APIKey, error) {
	var keys []APIKey
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error
	return keys, err
}

func (s *IntegrationService) RevokeAPIKey(userID, keyID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&APIKey{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL", keyID, userID).
		Update("revoked_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

// Authenticate resolves a raw API key to its record and stamps last use.
func (s *IntegrationService) Authenticate(rawKey string) (*APIKey, error) {
	if rawKey == "" {
		return nil, ErrInvalidAPIKey
	}

	var key APIKey
	err := s.db.Where("key_hash = ? AND revoked_at IS NULL", hashKey(rawKey)).First(&key).Error
	if err != nil {
		return nil, ErrInvalidAPIKey
	}

	now := time.Now()
	s.db.Model(&key).Update("last_used_at", now)
	return &key, nil
}
