package reels

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/services"
	"github.com/stretchr/testify/assert"
)

func newTestService() *ReelService {
	return NewReelService(nil, services.NewModerationService(nil), nil, nil)
}

func TestCreateReelValidation(t *testing.T) {
	s := newTestService()
	userID := uuid.New()

	_, err := s.CreateReel(userID, &CreateReelInput{DurationSecs: 30})
	assert.EqualError(t, err, "video_url is required")

	_, err = s.CreateReel(userID, &CreateReelInput{
		VideoURL:     "https://cdn.example.com/v.mp4",
		DurationSecs: 0,
	})
	assert.EqualError(t, err, "duration must be 1-90 seconds")

	_, err = s.CreateReel(userID, &CreateReelInput{
		VideoURL:     "https://cdn.example.com/v.mp4",
		DurationSecs: 91,
	})
	assert.EqualError(t, err, "duration must be 1-90 seconds")
}

func TestCreateReelRejectsFilteredCaption(t *testing.T) {
	s := newTestService()

	_, err := s.CreateReel(uuid.New(), &CreateReelInput{
		VideoURL:     "https://cdn.example.com/v.mp4",
		DurationSecs: 30,
		Caption:      "email me at someone@example.com",
	})
	assert.EqualError(t, err, "Contact information is not allowed.")
}
