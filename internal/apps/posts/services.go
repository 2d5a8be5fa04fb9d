package posts

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/models"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// PostService handles post CRUD, likes and bookmarks.
type PostService struct {
	db            *gorm.DB
	moderation    *services.ModerationService
	notifications *services.NotificationService
	search        TrendingRecorder
	events        services.EventDispatcher
}

// TrendingRecorder lets post creation feed hashtag usage into trending
// without importing the search feature directly.
type TrendingRecorder interface {
	RecordPostTag(tag string)
}

func NewPostService(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService, search TrendingRecorder, events services.EventDispatcher) *PostService {
	return &PostService{db: db, moderation: moderation, notifications: notifications, search: search, events: events}
}

type CreatePostInput struct {
	Caption   string   `json:"caption"`
	MediaURLs []string `json:"media_urls"`
	Tags      []string `json:"tags"`
	Location  string   `json:"location"`
}

func (s *PostService) CreatePost(userID uuid.UUID, input *CreatePostInput) (*Post, error) {
	if len(input.Caption) > maxCaptionLength {
		return nil, fmt.Errorf("caption must be under %d characters", maxCaptionLength)
	}
	if input.Caption == "" && len(input.MediaURLs) == 0 {
		return nil, errors.New("post needs a caption or media")
	}

	if ok, reason := s.moderation.FilterContent(input.Caption); !ok {
		return nil, errors.New(s.moderation.GetRejectionMessage(reason))
	}

	post := Post{
		ID:       uuid.New(),
		UserID:   userID,
		Caption:  input.Caption,
		Location: input.Location,
	}
	if len(input.MediaURLs) > 0 {
		b, _ := json.Marshal(input.MediaURLs)
		post.MediaURLs = datatypes.JSON(b)
	}
	if len(input.Tags) > 0 {
		b, _ := json.Marshal(input.Tags)
		post.Tags = datatypes.JSON(b)
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}

	if s.search != nil {
		for _, tag := range input.Tags {
			s.search.RecordPostTag(tag)
		}
	}

	if s.events != nil {
		s.events.Dispatch("post.created", map[string]interface{}{
			"post_id": post.ID.String(),
			"user_id": userID.String(),
		})
	}

	return &post, nil
}

func (s *PostService) GetPost(postID uuid.UUID) (*Post, error) {
	var post Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return nil, ErrPostNotFound
	}

	s.db.Model(&post).Update("view_count", gorm.Expr("view_count + 1"))
	return &post, nil
}

// GetFeed returns posts newest first, excluding authors the viewer has
// blocked (or who blocked the viewer).
func (s *PostService) GetFeed(viewerID uuid.UUID, page, limit int) ([]Post, int64, error) {
	blocked, err := s.moderation.GetBlockedIDs(viewerID)
	if err != nil {
		return nil, 0, err
	}

	var blockedBy []models.Block
	if err := s.db.Where("blocked_id = ?", viewerID).Find(&blockedBy).Error; err != nil {
		return nil, 0, err
	}
	for _, b := range blockedBy {
		blocked = append(blocked, b.BlockerID)
	}

	query := s.db.Model(&Post{})
	if len(blocked) > 0 {
		query = query.Where("user_id NOT IN ?", blocked)
	}

	var total int64
	query.Count(&total)

	var posts []Post
	err = query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (s *PostService) ListUserPosts(userID uuid.UUID, page, limit int) ([]Post, int64, error) {
	var posts []Post
	var total int64

	query := s.db.Model(&Post{}).Where("user_id = ?", userID)
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

type UpdatePostInput struct {
	Caption  *string `json:"caption"`
	Location *string `json:"location"`
}

func (s *PostService) UpdatePost(userID, postID uuid.UUID, input *UpdatePostInput) (*Post, error) {
	var post Post
	if err := s.db.Where("id = ? AND user_id = ?", postID, userID).First(&post).Error; err != nil {
		return nil, ErrPostNotFound
	}

	updates := map[string]interface{}{}
	if input.Caption != nil {
		if len(*input.Caption) > maxCaptionLength {
			return nil, fmt.Errorf("caption must be under %d characters", maxCaptionLength)
		}
		if ok, reason := s.moderation.FilterContent(*input.Caption); !ok {
			return nil, errors.New(s.moderation.GetRejectionMessage(reason))
		}
		updates["caption"] = *input.Caption
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}

	if len(updates) > 0 {
		if err := s.db.Model(&post).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &post, nil
}

func (s *PostService) DeletePost(userID, postID uuid.UUID) error {
	var post Post
	if err := s.db.Where("id = ? AND user_id = ?", postID, userID).First(&post).Error; err != nil {
		return ErrPostNotFound
	}
	return s.db.Delete(&post).Error
}

// LikePost toggles the caller's like on a post.
func (s *PostService) LikePost(userID, postID uuid.UUID) (bool, error) {
	var post Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return false, ErrPostNotFound
	}

	var existing PostLike
	if err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error; err == nil {
		s.db.Delete(&existing)
		s.db.Model(&Post{}).Where("id = ?", postID).
			Update("like_count", gorm.Expr("like_count - 1"))
		return false, nil
	}

	like := PostLike{
		ID:     uuid.New(),
		PostID: postID,
		UserID: userID,
	}
	if err := s.db.Create(&like).Error; err != nil {
		return false, err
	}
	s.db.Model(&Post{}).Where("id = ?", postID).
		Update("like_count", gorm.Expr("like_count + 1"))

	if post.UserID != userID {
		s.notifications.NotifyAsync(post.UserID, &userID, models.NotifyLike,
			"New like", "Someone liked your post", "post", &postID)
	}

	return true, nil
}

// BookmarkPost toggles a bookmark on the post.
func (s *PostService) BookmarkPost(userID, postID uuid.UUID) (bool, error) {
	var post Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return false, ErrPostNotFound
	}

	var existing Bookmark
	if err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error; err == nil {
		s.db.Delete(&existing)
		s.db.Model(&Post{}).Where("id = ?", postID).
			Update("bookmark_count", gorm.Expr("bookmark_count - 1"))
		return false, nil
	}

	bookmark := Bookmark{
		ID:     uuid.New(),
		PostID: postID,
		UserID: userID,
	}
	if err := s.db.Create(&bookmark).Error; err != nil {
		return false, err
	}
	s.db.Model(&Post{}).Where("id = ?", postID).
		Update("bookmark_count", gorm.Expr("bookmark_count + 1"))

	return true, nil
}

func (s *PostService) ListBookmarks(userID uuid.UUID, page, limit int) ([]Post, int64, error) {
	var total int64
	s.db.Model(&Bookmark{}).Where("user_id = ?", userID).Count(&total)

	var posts []Post
	err := s.db.
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}
