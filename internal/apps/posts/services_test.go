package posts

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/services"
	"github.com/stretchr/testify/assert"
)

func newTestService() *PostService {
	return NewPostService(nil, services.NewModerationService(nil), nil, nil, nil)
}

func TestCreatePostValidation(t *testing.T) {
	s := newTestService()
	userID := uuid.New()

	_, err := s.CreatePost(userID, &CreatePostInput{
		Caption: strings.Repeat("a", maxCaptionLength+1),
	})
	assert.EqualError(t, err, "caption must be under 2200 characters")

	_, err = s.CreatePost(userID, &CreatePostInput{})
	assert.EqualError(t, err, "post needs a caption or media")
}

func TestCreatePostRejectsFilteredCaption(t *testing.T) {
	s := newTestService()

	_, err := s.CreatePost(uuid.New(), &CreatePostInput{
		Caption: "buy now at https://example.com/deal",
	})
	assert.EqualError(t, err, "URLs and web links are not allowed.")

	_, err = s.CreatePost(uuid.New(), &CreatePostInput{
		Caption: "this app is a scam",
	})
	assert.EqualError(t, err, "Your content contains inappropriate language.")
}
