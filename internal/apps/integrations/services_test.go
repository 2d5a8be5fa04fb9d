package integrations

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func newTestService() *IntegrationService {
	return NewIntegrationService(nil, &config.Config{
		WebhookTimeout:     time.Second,
		WebhookMaxAttempts: 3,
	})
}

func TestSign(t *testing.T) {
	payload := []byte(`{"event":"post.created"}`)

	sig := Sign("secret-a", payload)

	assert.Len(t, sig, 64) // hex-encoded HMAC-SHA256
	assert.Equal(t, sig, Sign("secret-a", payload))
	assert.NotEqual(t, sig, Sign("secret-b", payload))
	assert.NotEqual(t, sig, Sign("secret-a", []byte(`{"event":"post.deleted"}`)))
}

func TestCreateWebhookValidation(t *testing.T) {
	s := newTestService()
	userID := uuid.New()

	_, _, err := s.CreateWebhook(userID, &CreateWebhookInput{
		TargetURL: "ftp://example.com/hook",
		Events:    []string{"post.created"},
	})
	assert.EqualError(t, err, "target_url must be a valid http(s) URL")

	_, _, err = s.CreateWebhook(userID, &CreateWebhookInput{
		TargetURL: "not a url",
		Events:    []string{"post.created"},
	})
	assert.EqualError(t, err, "target_url must be a valid http(s) URL")

	_, _, err = s.CreateWebhook(userID, &CreateWebhookInput{
		TargetURL: "https://example.com/hook",
	})
	assert.EqualError(t, err, "at least one event is required")

	_, _, err = s.CreateWebhook(userID, &CreateWebhookInput{
		TargetURL: "https://example.com/hook",
		Events:    []string{"post.created", "post.teleported"},
	})
	assert.EqualError(t, err, "unknown event: post.teleported")
}

func TestCreateAPIKeyRequiresName(t *testing.T) {
	s := newTestService()

	_, _, err := s.CreateAPIKey(uuid.New(), "   ")
	assert.EqualError(t, err, "name is required")
}

func TestAuthenticateEmptyKey(t *testing.T) {
	s := newTestService()

	_, err := s.Authenticate("")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestHashKey(t *testing.T) {
	h := hashKey("pk_abc123")

	assert.Len(t, h, 64)
	assert.Equal(t, h, hashKey("pk_abc123"))
	assert.NotEqual(t, h, hashKey("pk_abc124"))
}
