package search

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/cache"
	"github.com/pulseapp/pulse-backend/internal/models"
	"gorm.io/gorm"
)

const (
	trendingCacheKey = "search:trending"
	trendingCacheTTL = 60 * time.Second
	trendingWindow   = 24 * time.Hour
)

type SearchService struct {
	db    *gorm.DB
	cache *cache.Client
}

func NewSearchService(db *gorm.DB, cache *cache.Client) *SearchService {
	return &SearchService{db: db, cache: cache}
}

// --- Search ---

func (s *SearchService) SearchUsers(query string, page, limit int) ([]models.User, int64, error) {
	pattern := "%" + query + "%"

	dbQuery := s.db.Model(&models.User{}).
		Where("username ILIKE ? OR display_name ILIKE ?", pattern, pattern)

	var total int64
	dbQuery.Count(&total)

	var users []models.User
	err := dbQuery.Order("username").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	return users, total, err
}

// PostResult carries the subset of post columns search returns.
type PostResult struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Caption   string    `json:"caption"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *SearchService) SearchPosts(query string, page, limit int) ([]PostResult, error) {
	pattern := "%" + query + "%"

	var results []PostResult
	err := s.db.Table("posts").
		Select("id, user_id, caption, like_count, created_at").
		Where("caption ILIKE ? AND deleted_at IS NULL", pattern).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&results).Error
	return results, err
}

func (s *SearchService) SearchHashtags(query string, limit int) ([]TrendingTopic, error) {
	pattern := "%" + strings.TrimPrefix(query, "#") + "%"

	var topics []TrendingTopic
	err := s.db.Where("topic ILIKE ?", pattern).
		Order("score DESC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}

// --- History ---

func (s *SearchService) RecordSearch(userID uuid.UUID, query, kind string) {
	if query == "" {
		return
	}
	history := SearchHistory{
		ID:     uuid.New(),
		UserID: userID,
		Query:  query,
		Kind:   kind,
	}
	if err := s.db.Create(&history).Error; err != nil {
		slog.Error("failed to record search history", "error", err)
	}

	s.IncrementSearch(query)
}

func (s *SearchService) ListHistory(userID uuid.UUID, limit int) ([]SearchHistory, error) {
	var history []SearchHistory
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&history).Error
	return history, err
}

func (s *SearchService) ClearHistory(userID uuid.UUID) (int64, error) {
	result := s.db.Where("user_id = ?", userID).Delete(&SearchHistory{})
	return result.RowsAffected, result.Error
}

// --- Trending ---

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(topic, "#")))
}

// IncrementSearch bumps a topic's search count and recomputes its score.
func (s *SearchService) IncrementSearch(topic string) {
	s.incrementTopic(topic, "search_count")
}

// RecordPostTag bumps a topic's post count and recomputes its score.
// Post creation calls this for each hashtag.
func (s *SearchService) RecordPostTag(topic string) {
	s.incrementTopic(topic, "post_count")
}

func (s *SearchService) incrementTopic(topic, column string) {
	normalized := normalizeTopic(topic)
	if normalized == "" {
		return
	}

	var record TrendingTopic
	err := s.db.Where("topic = ?", normalized).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = TrendingTopic{
			ID:    uuid.New(),
			Topic: normalized,
		}
		if column == "search_count" {
			record.SearchCount = 1
		} else {
			record.PostCount = 1
		}
		record.Score = TrendingScore(record.SearchCount, record.PostCount)
		if err := s.db.Create(&record).Error; err != nil {
			slog.Error("failed to create trending topic", "topic", normalized, "error", err)
		}
		s.invalidateTrendingCache()
		return
	}
	if err != nil {
		slog.Error("failed to load trending topic", "topic", normalized, "error", err)
		return
	}

	if column == "search_count" {
		record.SearchCount++
	} else {
		record.PostCount++
	}
	record.Score = TrendingScore(record.SearchCount, record.PostCount)

	if err := s.db.Model(&record).Updates(map[string]interface{}{
		column:  gorm.Expr(column + " + 1"),
		"score": record.Score,
	}).Error; err != nil {
		slog.Error("failed to update trending topic", "topic", normalized, "error", err)
	}
	s.invalidateTrendingCache()
}

func (s *SearchService) invalidateTrendingCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.cache.Delete(ctx, trendingCacheKey)
}

// Trending returns the top topics from the last 24 hours, served from a
// 60-second redis cache.
func (s *SearchService) Trending(limit int) ([]TrendingTopic, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if cached, ok := s.cache.Get(ctx, trendingCacheKey); ok {
		var topics []TrendingTopic
		if err := json.Unmarshal([]byte(cached), &topics); err == nil {
			if len(topics) > limit {
				topics = topics[:limit]
			}
			return topics, nil
		}
	}

	var topics []TrendingTopic
	err := s.db.Where("updated_at > ?", time.Now().Add(-trendingWindow)).
		Order("score DESC").
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(topics); err == nil {
		_ = s.cache.Set(ctx, trendingCacheKey, string(b), trendingCacheTTL)
	}

	return topics, nil
}
