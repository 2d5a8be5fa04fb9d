package stories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/services"
	"github.com/stretchr/testify/assert"
)

func newTestService() *StoryService {
	return NewStoryService(nil, services.NewModerationService(nil), nil, nil, nil)
}

func TestCreateStoryValidation(t *testing.T) {
	s := newTestService()
	userID := uuid.New()

	_, err := s.CreateStory(userID, &CreateStoryInput{})
	assert.EqualError(t, err, "media_url is required")

	_, err = s.CreateStory(userID, &CreateStoryInput{
		MediaURL:  "https://cdn.example.com/s.jpg",
		MediaType: "audio",
	})
	assert.EqualError(t, err, "media_type must be image or video")
}

func TestCreateStoryRejectsFilteredCaption(t *testing.T) {
	s := newTestService()

	_, err := s.CreateStory(uuid.New(), &CreateStoryInput{
		MediaURL: "https://cdn.example.com/s.jpg",
		Caption:  "DM me on www.example.com now",
	})
	assert.EqualError(t, err, "URLs and web links are not allowed.")
}
