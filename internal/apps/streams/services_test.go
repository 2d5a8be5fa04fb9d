package streams

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateStreamRequiresTitle(t *testing.T) {
	s := NewStreamService(nil, nil, nil, nil, nil)

	_, err := s.CreateStream(uuid.New(), &CreateStreamInput{})
	assert.EqualError(t, err, "title is required")
}

func TestSendBadgeRejectsUnknownType(t *testing.T) {
	s := NewStreamService(nil, nil, nil, nil, nil)

	_, err := s.SendBadge(uuid.New(), uuid.New(), "confetti", 1.0, "")
	assert.ErrorIs(t, err, ErrInvalidBadgeType)
}

func TestBadgeTypes(t *testing.T) {
	for _, badge := range []string{"heart", "star", "diamond", "rocket", "crown"} {
		assert.True(t, badgeTypes[badge], badge)
	}
	assert.False(t, badgeTypes["gold"])
}

func TestViewerCountKey(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	assert.Equal(t, "stream:viewers:11111111-2222-3333-4444-555555555555", viewerCountKey(id))
}
