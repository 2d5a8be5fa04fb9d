package social

import (
	"errors"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/models"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrProfileNotFound  = errors.New("user not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrBlocked          = errors.New("you cannot interact with this user")
)

// SocialService handles follows, public profiles and comments.
type SocialService struct {
	db            *gorm.DB
	moderation    *services.ModerationService
	notifications *services.NotificationService
	events        services.EventDispatcher
}

func NewSocialService(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService, events services.EventDispatcher) *SocialService {
	return &SocialService{db: db, moderation: moderation, notifications: notifications, events: events}
}

// --- Follows ---

func (s *SocialService) FollowUser(followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	var target models.User
	if err := s.db.First(&target, "id = ?", followingID).Error; err != nil {
		return ErrProfileNotFound
	}

	blocked, err := s.moderation.IsBlockedEither(followerID, followingID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrBlocked
	}

	var existing Follow
	if err := s.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&existing).Error; err == nil {
		return ErrAlreadyFollowing
	}

	follow := Follow{
		ID:          uuid.New(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	if err := s.db.Create(&follow).Error; err != nil {
		return err
	}

	s.notifications.NotifyAsync(followingID, &followerID, models.NotifyFollow,
		"New follower", "Someone started following you", "user", &followerID)

	if s.events != nil {
		s.events.Dispatch("user.followed", map[string]interface{}{
			"follower_id":  followerID.String(),
			"following_id": followingID.String(),
		})
	}

	return nil
}

func (s *SocialService) UnfollowUser(followerID, followingID uuid.UUID) error {
	result := s.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (s *SocialService) IsFollowing(followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (s *SocialService) ListFollowers(userID uuid.UUID, page, limit int) ([]models.User, int64, error) {
	var total int64
	s.db.Model(&Follow{}).Where("following_id = ?", userID).Count(&total)

	var users []models.User
	err := s.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (s *SocialService) ListFollowing(userID uuid.UUID, page, limit int) ([]models.User, int64, error) {
	var total int64
	s.db.Model(&Follow{}).Where("follower_id = ?", userID).Count(&total)

	var users []models.User
	err := s.db.
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	return users, total, err
}

// FollowingIDs returns the IDs of everyone the user follows. Feed queries
// use this to scope content to followed authors.
func (s *SocialService) FollowingIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var follows []Follow
	if err := s.db.Where("follower_id = ?", userID).Find(&follows).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowingID
	}
	return ids, nil
}

// FollowerIDs returns the IDs of everyone following the user. Stream start
// fan-out uses this.
func (s *SocialService) FollowerIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var follows []Follow
	if err := s.db.Where("following_id = ?", userID).Find(&follows).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowerID
	}
	return ids, nil
}

// --- Profiles ---

type Profile struct {
	models.User
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

func (s *SocialService) GetProfile(username string) (*Profile, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, ErrProfileNotFound
	}

	profile := Profile{User: user}
	s.db.Model(&Follow{}).Where("following_id = ?", user.ID).Count(&profile.FollowerCount)
	s.db.Model(&Follow{}).Where("follower_id = ?", user.ID).Count(&profile.FollowingCount)
	return &profile, nil
}

// --- Comments ---

func (s *SocialService) AddComment(userID uuid.UUID, contentType string, contentID uuid.UUID, parentID *uuid.UUID, content string) (*Comment, error) {
	if !commentableTypes[contentType] {
		return nil, errors.New("invalid content_type")
	}
	if len(content) < 1 || len(content) > 1000 {
		return nil, errors.New("comment must be 1-1000 characters")
	}

	if ok, reason := s.moderation.FilterContent(content); !ok {
		return nil, errors.New(s.moderation.GetRejectionMessage(reason))
	}

	comment := Comment{
		ID:          uuid.New(),
		UserID:      userID,
		ContentType: contentType,
		ContentID:   contentID,
		ParentID:    parentID,
		Content:     content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.bumpCommentCount(contentType, contentID, 1)

	return &comment, nil
}

// bumpCommentCount keeps the denormalized counter on the commented row in
// step. Stories carry no counter, so only posts and reels are touched.
func (s *SocialService) bumpCommentCount(contentType string, contentID uuid.UUID, delta int) {
	table, ok := commentCountTables[contentType]
	if !ok {
		return
	}
	query := s.db.Table(table).Where("id = ?", contentID)
	if delta < 0 {
		query = query.Where("comment_count > 0")
	}
	query.Update("comment_count", gorm.Expr("comment_count + ?", delta))
}

func (s *SocialService) ListComments(contentType string, contentID uuid.UUID, page, limit int) ([]Comment, int64, error) {
	var comments []Comment
	var total int64

	query := s.db.Model(&Comment{}).
		Where("content_type = ? AND content_id = ?", contentType, contentID)
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&comments).Error
	return comments, total, err
}

func (s *SocialService) DeleteComment(userID, commentID uuid.UUID) error {
	var comment Comment
	if err := s.db.Where("id = ? AND user_id = ?", commentID, userID).First(&comment).Error; err != nil {
		return ErrCommentNotFound
	}
	if err := s.db.Delete(&comment).Error; err != nil {
		return err
	}

	s.bumpCommentCount(comment.ContentType, comment.ContentID, -1)
	return nil
}

// LikeComment toggles the caller's like on a comment.
func (s *SocialService) LikeComment(userID, commentID uuid.UUID) (bool, error) {
	var comment Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		return false, ErrCommentNotFound
	}

	var existing CommentLike
	if err := s.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&existing).Error; err == nil {
		s.db.Delete(&existing)
		s.db.Model(&Comment{}).Where("id = ?", commentID).
			Update("like_count", gorm.Expr("like_count - 1"))
		return false, nil
	}

	like := CommentLike{
		ID:        uuid.New(),
		CommentID: commentID,
		UserID:    userID,
	}
	if err := s.db.Create(&like).Error; err != nil {
		return false, err
	}
	s.db.Model(&Comment{}).Where("id = ?", commentID).
		Update("like_count", gorm.Expr("like_count + 1"))

	s.notifications.NotifyAsync(comment.UserID, &userID, models.NotifyLike,
		"New like", "Someone liked your comment", "comment", &commentID)

	return true, nil
}
