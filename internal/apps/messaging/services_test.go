package messaging

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	assert.Equal(t, pairKey(a, b), pairKey(b, a))
	assert.NotEqual(t, pairKey(a, b), pairKey(a, uuid.New()))
}

func TestPairKeySortsLexically(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	assert.Equal(t, a.String()+":"+b.String(), pairKey(b, a))
}

func TestTruncatePreview(t *testing.T) {
	short := "hello there"
	assert.Equal(t, short, truncatePreview(short))

	exact := strings.Repeat("a", messagePreviewLength)
	assert.Equal(t, exact, truncatePreview(exact))

	long := strings.Repeat("a", messagePreviewLength+10)
	assert.Equal(t, strings.Repeat("a", messagePreviewLength), truncatePreview(long))

	// The cut lands in the middle of the two-byte é; the whole rune is
	// dropped instead of leaving a broken byte behind.
	multibyte := strings.Repeat("a", messagePreviewLength-1) + "ééé"
	got := truncatePreview(multibyte)
	assert.Equal(t, strings.Repeat("a", messagePreviewLength-1), got)
	assert.True(t, utf8.ValidString(got))
}

func TestCreateConversationValidation(t *testing.T) {
	s := NewMessagingService(nil, nil, nil)
	creator := uuid.New()

	_, err := s.CreateConversation(creator, &CreateConversationInput{Type: "broadcast"})
	assert.EqualError(t, err, "type must be direct or group")

	_, err = s.CreateConversation(creator, &CreateConversationInput{Type: "direct"})
	assert.EqualError(t, err, "direct conversation needs exactly one other participant")

	_, err = s.CreateConversation(creator, &CreateConversationInput{
		Type:           "direct",
		ParticipantIDs: []uuid.UUID{uuid.New(), uuid.New()},
	})
	assert.EqualError(t, err, "direct conversation needs exactly one other participant")

	_, err = s.CreateConversation(creator, &CreateConversationInput{
		Type:           "direct",
		ParticipantIDs: []uuid.UUID{creator},
	})
	assert.EqualError(t, err, "cannot message yourself")

	_, err = s.CreateConversation(creator, &CreateConversationInput{Type: "group"})
	assert.EqualError(t, err, "group conversation needs a name")
}
