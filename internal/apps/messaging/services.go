package messaging

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/models"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotParticipant       = errors.New("not a participant of this conversation")
	ErrNotGroup             = errors.New("conversation is not a group")
	ErrGroupFull            = errors.New("conversation is full")
	ErrAlreadyParticipant   = errors.New("user is already a participant")
	ErrMessagingBlocked     = errors.New("you cannot message this user")
)

const messagePreviewLength = 120

type MessagingService struct {
	db            *gorm.DB
	moderation    *services.ModerationService
	notifications *services.NotificationService
}

func NewMessagingService(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService) *MessagingService {
	return &MessagingService{db: db, moderation: moderation, notifications: notifications}
}

// truncatePreview caps the denormalized conversation preview, backing off
// to the previous rune boundary so multi-byte text stays valid UTF-8.
func truncatePreview(s string) string {
	if len(s) <= messagePreviewLength {
		return s
	}
	cut := messagePreviewLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// pairKey builds the dedup key for a direct conversation: the two user IDs
// sorted lexically and joined.
func pairKey(a, b uuid.UUID) string {
	if a.String() < b.String() {
		return a.String() + ":" + b.String()
	}
	return b.String() + ":" + a.String()
}

type CreateConversationInput struct {
	Type            string      `json:"type"`
	Name            string      `json:"name"`
	ParticipantIDs  []uuid.UUID `json:"participant_ids"`
	MaxParticipants int         `json:"max_participants"`
}

// CreateConversation starts a direct or group thread. A direct conversation
// between the same pair is returned instead of duplicated.
func (s *MessagingService) CreateConversation(creatorID uuid.UUID, input *CreateConversationInput) (*Conversation, error) {
	convType := input.Type
	if convType == "" {
		convType = "direct"
	}
	if convType != "direct" && convType != "group" {
		return nil, errors.New("type must be direct or group")
	}

	if convType == "direct" {
		if len(input.ParticipantIDs) != 1 {
			return nil, errors.New("direct conversation needs exactly one other participant")
		}
		otherID := input.ParticipantIDs[0]
		if otherID == creatorID {
			return nil, errors.New("cannot message yourself")
		}

		blocked, err := s.moderation.IsBlockedEither(creatorID, otherID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, ErrMessagingBlocked
		}

		key := pairKey(creatorID, otherID)
		var existing Conversation
		if err := s.db.Where("pair_key = ?", key).First(&existing).Error; err == nil {
			return &existing, nil
		}

		conv := Conversation{
			ID:              uuid.New(),
			Type:            "direct",
			CreatedBy:       creatorID,
			PairKey:         &key,
			MaxParticipants: 2,
		}
		if err := s.db.Create(&conv).Error; err != nil {
			return nil, err
		}
		s.addParticipant(conv.ID, creatorID, "member")
		s.addParticipant(conv.ID, otherID, "member")
		return &conv, nil
	}

	if input.Name == "" {
		return nil, errors.New("group conversation needs a name")
	}
	maxParticipants := input.MaxParticipants
	if maxParticipants <= 0 || maxParticipants > 200 {
		maxParticipants = 50
	}

	conv := Conversation{
		ID:              uuid.New(),
		Type:            "group",
		Name:            input.Name,
		CreatedBy:       creatorID,
		MaxParticipants: maxParticipants,
	}
	if err := s.db.Create(&conv).Error; err != nil {
		return nil, err
	}

	s.addParticipant(conv.ID, creatorID, "admin")
	for _, id := range input.ParticipantIDs {
		if id != creatorID {
			s.addParticipant(conv.ID, id, "member")
		}
	}
	return &conv, nil
}

func (s *MessagingService) addParticipant(conversationID, userID uuid.UUID, role string) {
	participant := Participant{
		ID:             uuid.New(),
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now(),
	}
	s.db.Create(&participant)
}

func (s *MessagingService) ListConversations(userID uuid.UUID, page, limit int) ([]Conversation, int64, error) {
	var total int64
	s.db.Model(&Participant{}).Where("user_id = ?", userID).Count(&total)

	var conversations []Conversation
	err := s.db.
		Joins("JOIN participants ON participants.conversation_id = conversations.id").
		Where("participants.user_id = ?", userID).
		Order("conversations.last_message_at DESC NULLS LAST").
		Offset((page - 1) * limit).Limit(limit).
		Find(&conversations).Error
	return conversations, total, err
}

func (s *MessagingService) isParticipant(conversationID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddParticipant adds a user to a group conversation.
func (s *MessagingService) AddParticipant(callerID, conversationID, userID uuid.UUID) error {
	var conv Conversation
	if err := s.db.First(&conv, "id = ?", conversationID).Error; err != nil {
		return ErrConversationNotFound
	}
	if conv.Type != "group" {
		return ErrNotGroup
	}

	ok, err := s.isParticipant(conversationID, callerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotParticipant
	}

	already, err := s.isParticipant(conversationID, userID)
	if err != nil {
		return err
	}
	if already {
		return ErrAlreadyParticipant
	}

	var count int64
	s.db.Model(&Participant{}).Where("conversation_id = ?", conversationID).Count(&count)
	if int(count) >= conv.MaxParticipants {
		return ErrGroupFull
	}

	s.addParticipant(conversationID, userID, "member")
	return nil
}

type SendMessageInput struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	MediaURL string `json:"media_url"`
}

func (s *MessagingService) SendMessage(senderID, conversationID uuid.UUID, input *SendMessageInput) (*Message, error) {
	var conv Conversation
	if err := s.db.First(&conv, "id = ?", conversationID).Error; err != nil {
		return nil, ErrConversationNotFound
	}

	ok, err := s.isParticipant(conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	msgType := input.Type
	if msgType == "" {
		msgType = "text"
	}
	if msgType != "text" && msgType != "media" {
		return nil, errors.New("type must be text or media")
	}
	if msgType == "text" && input.Content == "" {
		return nil, errors.New("content is required")
	}
	if msgType == "media" && input.MediaURL == "" {
		return nil, errors.New("media_url is required")
	}
	if len(input.Content) > 5000 {
		return nil, errors.New("message must be under 5000 characters")
	}

	// Direct messages respect blocks created after the conversation.
	if conv.Type == "direct" {
		var other Participant
		err := s.db.Where("conversation_id = ? AND user_id <> ?", conversationID, senderID).
			First(&other).Error
		if err == nil {
			blocked, err := s.moderation.IsBlockedEither(senderID, other.UserID)
			if err != nil {
				return nil, err
			}
			if blocked {
				return nil, ErrMessagingBlocked
			}
		}
	}

	message := Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Type:           msgType,
		Content:        input.Content,
		MediaURL:       input.MediaURL,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	preview := truncatePreview(input.Content)
	now := time.Now()
	s.db.Model(&Conversation{}).Where("id = ?", conversationID).Updates(map[string]interface{}{
		"message_count":     gorm.Expr("message_count + 1"),
		"last_message_at":   now,
		"last_message_text": preview,
	})

	var participants []Participant
	if err := s.db.Where("conversation_id = ? AND user_id <> ?", conversationID, senderID).
		Find(&participants).Error; err == nil {
		for _, p := range participants {
			s.notifications.NotifyAsync(p.UserID, &senderID, models.NotifyMessage,
				"New message", preview, "conversation", &conversationID)
		}
	}

	return &message, nil
}

// ListMessages pages backwards in time. A non-zero before cursor returns
// messages older than it.
func (s *MessagingService) ListMessages(userID, conversationID uuid.UUID, before time.Time, limit int) ([]Message, error) {
	ok, err := s.isParticipant(conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	query := s.db.Where("conversation_id = ?", conversationID)
	if !before.IsZero() {
		query = query.Where("created_at < ?", before)
	}

	var messages []Message
	err = query.Order("created_at DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (s *MessagingService) EditMessage(userID, messageID uuid.UUID, content string) (*Message, error) {
	if content == "" {
		return nil, errors.New("content is required")
	}
	if len(content) > 5000 {
		return nil, errors.New("message must be under 5000 characters")
	}

	var message Message
	if err := s.db.Where("id = ? AND sender_id = ?", messageID, userID).First(&message).Error; err != nil {
		return nil, ErrMessageNotFound
	}

	if err := s.db.Model(&message).Updates(map[string]interface{}{
		"content":   content,
		"is_edited": true,
	}).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (s *MessagingService) DeleteMessage(userID, messageID uuid.UUID) error {
	var message Message
	if err := s.db.Where("id = ? AND sender_id = ?", messageID, userID).First(&message).Error; err != nil {
		return ErrMessageNotFound
	}
	return s.db.Delete(&message).Error
}

// MarkRead marks all messages from others as read and stamps the
// participant's last_read_at.
func (s *MessagingService) MarkRead(userID, conversationID uuid.UUID) (int64, error) {
	ok, err := s.isParticipant(conversationID, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotParticipant
	}

	now := time.Now()
	result := s.db.Model(&Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, userID).
		Update("read_at", now)
	if result.Error != nil {
		return 0, result.Error
	}

	s.db.Model(&Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("last_read_at", now)

	return result.RowsAffected, nil
}
