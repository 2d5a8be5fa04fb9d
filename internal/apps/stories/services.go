package stories

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/models"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrStoryNotFound     = errors.New("story not found")
	ErrHighlightNotFound = errors.New("highlight not found")
	ErrNotStoryOwner     = errors.New("not the story owner")
)

// FollowProvider supplies the list of users someone follows. The active
// story feed is scoped to followed authors.
type FollowProvider interface {
	FollowingIDs(userID uuid.UUID) ([]uuid.UUID, error)
}

type StoryService struct {
	db            *gorm.DB
	moderation    *services.ModerationService
	notifications *services.NotificationService
	follows       FollowProvider
	events        services.EventDispatcher
}

func NewStoryService(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService, follows FollowProvider, events services.EventDispatcher) *StoryService {
	return &StoryService{db: db, moderation: moderation, notifications: notifications, follows: follows, events: events}
}

type CreateStoryInput struct {
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
	Caption   string `json:"caption"`
}

func (s *StoryService) CreateStory(userID uuid.UUID, input *CreateStoryInput) (*Story, error) {
	if input.MediaURL == "" {
		return nil, errors.New("media_url is required")
	}
	mediaType := input.MediaType
	if mediaType == "" {
		mediaType = "image"
	}
	if mediaType != "image" && mediaType != "video" {
		return nil, errors.New("media_type must be image or video")
	}

	if ok, reason := s.moderation.FilterContent(input.Caption); !ok {
		return nil, errors.New(s.moderation.GetRejectionMessage(reason))
	}

	story := Story{
		ID:        uuid.New(),
		UserID:    userID,
		MediaURL:  input.MediaURL,
		MediaType: mediaType,
		Caption:   input.Caption,
		ExpiresAt: time.Now().Add(storyTTL),
	}
	if err := s.db.Create(&story).Error; err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Dispatch("story.created", map[string]interface{}{
			"story_id": story.ID.String(),
			"user_id":  userID.String(),
		})
	}

	return &story, nil
}

// ActiveFeed groups unexpired stories by the authors the viewer follows.
func (s *StoryService) ActiveFeed(viewerID uuid.UUID) (map[uuid.UUID][]Story, error) {
	followingIDs, err := s.follows.FollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}
	if len(followingIDs) == 0 {
		return map[uuid.UUID][]Story{}, nil
	}

	var stories []Story
	err = s.db.Where("user_id IN ? AND expires_at > ?", followingIDs, time.Now()).
		Order("created_at ASC").
		Find(&stories).Error
	if err != nil {
		return nil, err
	}

	feed := make(map[uuid.UUID][]Story)
	for _, story := range stories {
		feed[story.UserID] = append(feed[story.UserID], story)
	}
	return feed, nil
}

func (s *StoryService) ListUserStories(userID uuid.UUID, includeExpired bool) ([]Story, error) {
	query := s.db.Where("user_id = ?", userID)
	if !includeExpired {
		query = query.Where("expires_at > ?", time.Now())
	}

	var stories []Story
	err := query.Order("created_at DESC").Find(&stories).Error
	return stories, err
}

// ViewStory records the view once per viewer and increments the counter on
// first view only.
func (s *StoryService) ViewStory(viewerID, storyID uuid.UUID) (*Story, error) {
	var story Story
	if err := s.db.First(&story, "id = ?", storyID).Error; err != nil {
		return nil, ErrStoryNotFound
	}

	if viewerID != story.UserID {
		var existing StoryViewer
		err := s.db.Where("story_id = ? AND viewer_id = ?", storyID, viewerID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			viewer := StoryViewer{
				ID:       uuid.New(),
				StoryID:  storyID,
				ViewerID: viewerID,
				ViewedAt: time.Now(),
			}
			if err := s.db.Create(&viewer).Error; err == nil {
				s.db.Model(&story).Update("view_count", gorm.Expr("view_count + 1"))
			}
		}
	}

	return &story, nil
}

// ListViewers returns who viewed the story. Owner only.
func (s *StoryService) ListViewers(ownerID, storyID uuid.UUID) ([]StoryViewer, error) {
	var story Story
	if err := s.db.First(&story, "id = ?", storyID).Error; err != nil {
		return nil, ErrStoryNotFound
	}
	if story.UserID != ownerID {
		return nil, ErrNotStoryOwner
	}

	var viewers []StoryViewer
	err := s.db.Where("story_id = ?", storyID).Order("viewed_at DESC").Find(&viewers).Error
	return viewers, err
}

func (s *StoryService) DeleteStory(userID, storyID uuid.UUID) error {
	var story Story
	if err := s.db.Where("id = ? AND user_id = ?", storyID, userID).First(&story).Error; err != nil {
		return ErrStoryNotFound
	}
	return s.db.Delete(&story).Error
}

// Interact records a reply or reaction and notifies the story owner.
func (s *StoryService) Interact(userID, storyID uuid.UUID, interactionType, content string) (*StoryInteraction, error) {
	if interactionType != "reply" && interactionType != "reaction" {
		return nil, errors.New("type must be reply or reaction")
	}
	if content == "" {
		return nil, errors.New("content is required")
	}

	var story Story
	if err := s.db.First(&story, "id = ?", storyID).Error; err != nil {
		return nil, ErrStoryNotFound
	}

	if interactionType == "reply" {
		if ok, reason := s.moderation.FilterContent(content); !ok {
			return nil, errors.New(s.moderation.GetRejectionMessage(reason))
		}
	}

	interaction := StoryInteraction{
		ID:      uuid.New(),
		StoryID: storyID,
		UserID:  userID,
		Type:    interactionType,
		Content: content,
	}
	if err := s.db.Create(&interaction).Error; err != nil {
		return nil, err
	}

	if story.UserID != userID {
		s.notifications.NotifyAsync(story.UserID, &userID, models.NotifyStoryAdded,
			"Story interaction", "Someone reacted to your story", "story", &storyID)
	}

	return &interaction, nil
}

// --- Highlights ---

type CreateHighlightInput struct {
	Title    string      `json:"title"`
	CoverURL string      `json:"cover_url"`
	StoryIDs []uuid.UUID `json:"story_ids"`
}

// CreateHighlight pins a set of the owner's stories, expired or not.
func (s *StoryService) CreateHighlight(userID uuid.UUID, input *CreateHighlightInput) (*StoryHighlight, error) {
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	if len(input.StoryIDs) == 0 {
		return nil, errors.New("at least one story is required")
	}

	var count int64
	s.db.Model(&Story{}).Where("id IN ? AND user_id = ?", input.StoryIDs, userID).Count(&count)
	if count != int64(len(input.StoryIDs)) {
		return nil, errors.New("all stories must belong to you")
	}

	b, _ := json.Marshal(input.StoryIDs)
	highlight := StoryHighlight{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    input.Title,
		CoverURL: input.CoverURL,
		StoryIDs: datatypes.JSON(b),
	}
	if err := s.db.Create(&highlight).Error; err != nil {
		return nil, err
	}
	return &highlight, nil
}

func (s *StoryService) ListHighlights(userID uuid.UUID) ([]StoryHighlight, error) {
	var highlights []StoryHighlight
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&highlights).Error
	return highlights, err
}

// HighlightStories resolves the stories inside a highlight, including
// expired ones.
func (s *StoryService) HighlightStories(highlightID uuid.UUID) ([]Story, error) {
	var highlight StoryHighlight
	if err := s.db.First(&highlight, "id = ?", highlightID).Error; err != nil {
		return nil, ErrHighlightNotFound
	}

	var storyIDs []uuid.UUID
	if err := json.Unmarshal(highlight.StoryIDs, &storyIDs); err != nil {
		return nil, err
	}

	var stories []Story
	err := s.db.Where("id IN ?", storyIDs).Order("created_at ASC").Find(&stories).Error
	return stories, err
}

func (s *StoryService) DeleteHighlight(userID, highlightID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", highlightID, userID).Delete(&StoryHighlight{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHighlightNotFound
	}
	return nil
}
