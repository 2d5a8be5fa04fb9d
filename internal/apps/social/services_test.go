package social

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/services"
	"github.com/stretchr/testify/assert"
)

func newTestService() *SocialService {
	return NewSocialService(nil, services.NewModerationService(nil), nil, nil)
}

func TestFollowUserSelf(t *testing.T) {
	s := newTestService()

	id := uuid.New()
	assert.ErrorIs(t, s.FollowUser(id, id), ErrSelfFollow)
}

func TestAddCommentValidation(t *testing.T) {
	s := newTestService()
	userID := uuid.New()

	_, err := s.AddComment(userID, "profile", uuid.New(), nil, "nice")
	assert.EqualError(t, err, "invalid content_type")

	_, err = s.AddComment(userID, "post", uuid.New(), nil, "")
	assert.EqualError(t, err, "comment must be 1-1000 characters")

	_, err = s.AddComment(userID, "post", uuid.New(), nil, strings.Repeat("a", 1001))
	assert.EqualError(t, err, "comment must be 1-1000 characters")
}

func TestAddCommentRejectsFilteredContent(t *testing.T) {
	s := newTestService()

	_, err := s.AddComment(uuid.New(), "reel", uuid.New(), nil, "total scam, avoid")
	assert.EqualError(t, err, "Your content contains inappropriate language.")
}
