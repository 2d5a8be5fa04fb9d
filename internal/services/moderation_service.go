package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/dto"
	"github.com/pulseapp/pulse-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrActionNotFound   = errors.New("moderation action not found")
	ErrAppealNotFound   = errors.New("appeal not found")
	ErrBanNotFound      = errors.New("ban not found")
	ErrFlagNotFound     = errors.New("content flag not found")
	ErrAlreadyReported  = errors.New("you have already reported this content")
	ErrAlreadyAppealed  = errors.New("you have already appealed this decision")
	ErrAlreadyBanned    = errors.New("user is already banned")
	ErrAppealNotAllowed = errors.New("this ban cannot be appealed")
	ErrAlreadyBlocked   = errors.New("user already blocked")
	ErrSelfBlock        = errors.New("cannot block yourself")
)

// StrikeBanThreshold is the number of active strikes that triggers an
// automatic temporary ban.
const (
	StrikeBanThreshold   = 3
	AutoBanDurationHours = 168
)

var reportableTypes = map[string]bool{
	"post": true, "reel": true, "story": true, "comment": true,
	"user": true, "message": true, "stream": true,
}

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"spam", "scam", "scammer", "phishing", "malware",
}

// Fixed confidences the AI moderation stub reports per check type, and the
// per-type flag thresholds above which a ContentFlag row is persisted.
var aiStubConfidence = map[string]float64{
	"spam":        0.15,
	"hate_speech": 0.05,
	"fake_news":   0.10,
}

var aiFlagThreshold = map[string]float64{
	"spam":        0.5,
	"hate_speech": 0.7,
	"fake_news":   0.6,
}

type ModerationService struct {
	db                  *gorm.DB
	events              EventDispatcher
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
	compiled            bool
	mu                  sync.RWMutex
}

func NewModerationService(db *gorm.DB) *ModerationService {
	ms := &ModerationService{db: db}
	ms.compilePatterns()
	return ms
}

// SetDispatcher wires outbound event delivery. The dispatcher is attached
// after construction because the integrations module itself depends on
// moderation-adjacent config.
func (ms *ModerationService) SetDispatcher(events EventDispatcher) {
	ms.events = events
}

func (ms *ModerationService) compilePatterns() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.compiled {
		return
	}

	ms.bannedWordRegexps = make([]*regexp.Regexp, 0, len(BannedWords))
	for _, word := range BannedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			ms.bannedWordRegexps = append(ms.bannedWordRegexps, re)
		}
	}

	ms.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	ms.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	ms.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	ms.repeatedCharPattern = regexp.MustCompile(`(?i)(a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,}|!{4,}|\?{4,}|\.{4,})`)
	ms.allCapsPattern = regexp.MustCompile(`[A-Z]{5,}`)
	ms.compiled = true
}

// FilterContent runs the rule-based content filter. It returns false and a
// machine-readable reason when the text violates a rule.
func (ms *ModerationService) FilterContent(text string) (bool, string) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if text == "" {
		return true, ""
	}
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if ms.urlPattern.MatchString(text) {
		return false, "url_not_allowed"
	}
	if ms.emailPattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ms.phonePattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ms.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	capsMatches := ms.allCapsPattern.FindAllString(text, -1)
	if len(capsMatches) > 2 {
		return false, "excessive_caps"
	}
	return true, ""
}

func (ms *ModerationService) ContainsProfanity(text string) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (ms *ModerationService) GetRejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language":   "Your content contains inappropriate language.",
		"url_not_allowed":          "URLs and web links are not allowed.",
		"contact_info_not_allowed": "Contact information is not allowed.",
		"spam_detected":            "Your content appears to be spam.",
		"excessive_caps":           "Please avoid using excessive capital letters.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "Your content does not meet our community guidelines."
}

// --- Reports ---

func (s *ModerationService) CreateReport(reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.ContentReport, error) {
	if !reportableTypes[req.ContentType] {
		return nil, errors.New("invalid content_type")
	}
	if req.Reason == "" {
		return nil, errors.New("reason is required")
	}
	severity := req.Severity
	if severity == "" {
		severity = "low"
	}

	var existing models.ContentReport
	err := s.db.Where("reporter_id = ? AND content_type = ? AND content_id = ?",
		reporterID, req.ContentType, req.ContentID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyReported
	}

	report := models.ContentReport{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      req.Reason,
		Description: req.Description,
		Severity:    severity,
		Status:      "pending",
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.logModeration(nil, "content_reported", "content_report", report.ID,
		"Content reported: "+req.Reason, "", "", map[string]interface{}{
			"content_type": req.ContentType,
			"content_id":   req.ContentID.String(),
		})

	if s.events != nil {
		s.events.Dispatch("report.created", map[string]interface{}{
			"report_id":    report.ID.String(),
			"content_type": report.ContentType,
			"content_id":   report.ContentID.String(),
			"reason":       report.Reason,
			"severity":     report.Severity,
		})
	}

	return &report, nil
}

func (s *ModerationService) ListReports(status string, limit, offset int) ([]models.ContentReport, int64, error) {
	var reports []models.ContentReport
	var total int64

	query := s.db.Model(&models.ContentReport{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ModerationService) ReviewReport(reportID, moderatorID uuid.UUID, req *dto.ReviewReportRequest) (*models.ContentReport, error) {
	validStatuses := map[string]bool{"reviewed": true, "resolved": true, "dismissed": true}
	if !validStatuses[req.Status] {
		return nil, errors.New("invalid status: must be reviewed, resolved, or dismissed")
	}

	var report models.ContentReport
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrReportNotFound
	}

	oldStatus := report.Status
	now := time.Now()
	updates := map[string]interface{}{
		"status":      req.Status,
		"resolution":  req.Resolution,
		"reviewed_by": moderatorID,
		"reviewed_at": now,
	}
	if err := s.db.Model(&report).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.logModeration(&moderatorID, "report_reviewed", "content_report", reportID,
		"Report "+req.Status, oldStatus, req.Status, nil)

	return &report, nil
}

// --- Moderation actions and appeals ---

func (s *ModerationService) TakeAction(moderatorID uuid.UUID, req *dto.CreateActionRequest) (*models.ModerationAction, error) {
	validActions := map[string]bool{"remove": true, "hide": true, "warn": true, "restrict": true}
	if !validActions[req.ActionType] {
		return nil, errors.New("invalid action_type")
	}
	if req.Reason == "" {
		return nil, errors.New("reason is required")
	}
	severity := req.Severity
	if severity == "" {
		severity = "medium"
	}

	action := models.ModerationAction{
		ID:            uuid.New(),
		ModeratorID:   moderatorID,
		ContentType:   req.ContentType,
		ContentID:     req.ContentID,
		ActionType:    req.ActionType,
		Reason:        req.Reason,
		Severity:      severity,
		DurationHours: req.DurationHours,
	}
	if req.DurationHours != nil {
		deadline := time.Now().Add(time.Duration(*req.DurationHours) * time.Hour)
		action.AppealDeadline = &deadline
	}

	if err := s.db.Create(&action).Error; err != nil {
		return nil, fmt.Errorf("failed to create moderation action: %w", err)
	}

	s.logModeration(&moderatorID, "moderation_action_taken", req.ContentType, req.ContentID,
		"Action taken: "+req.ActionType+" - "+req.Reason, "", "", map[string]interface{}{
			"action_type": req.ActionType,
			"severity":    severity,
		})

	return &action, nil
}

func (s *ModerationService) AppealAction(appellantID uuid.UUID, req *dto.CreateAppealRequest) (*models.ModerationAppeal, error) {
	if req.Reason == "" {
		return nil, errors.New("reason is required")
	}

	var action models.ModerationAction
	if err := s.db.First(&action, "id = ?", req.ActionID).Error; err != nil {
		return nil, ErrActionNotFound
	}

	var existing models.ModerationAppeal
	err := s.db.Where("action_id = ? AND appellant_id = ?", req.ActionID, appellantID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyAppealed
	}

	appeal := models.ModerationAppeal{
		ID:          uuid.New(),
		ActionID:    req.ActionID,
		AppellantID: appellantID,
		Reason:      req.Reason,
		Evidence:    req.Evidence,
		Status:      "pending",
	}
	if err := s.db.Create(&appeal).Error; err != nil {
		return nil, fmt.Errorf("failed to create appeal: %w", err)
	}

	s.logModeration(nil, "moderation_appeal_submitted", "moderation_action", req.ActionID,
		"Appeal submitted", "", "", map[string]interface{}{"appeal_id": appeal.ID.String()})

	return &appeal, nil
}

func (s *ModerationService) ReviewAppeal(appealID, moderatorID uuid.UUID, req *dto.ReviewAppealRequest) (*models.ModerationAppeal, error) {
	validStatuses := map[string]bool{"approved": true, "denied": true, "under_review": true}
	if !validStatuses[req.Status] {
		return nil, errors.New("invalid status: must be approved, denied, or under_review")
	}

	var appeal models.ModerationAppeal
	if err := s.db.First(&appeal, "id = ?", appealID).Error; err != nil {
		return nil, ErrAppealNotFound
	}

	oldStatus := appeal.Status
	now := time.Now()
	if err := s.db.Model(&appeal).Updates(map[string]interface{}{
		"status":       req.Status,
		"review_notes": req.ReviewNotes,
		"reviewed_by":  moderatorID,
		"reviewed_at":  now,
	}).Error; err != nil {
		return nil, err
	}

	s.logModeration(&moderatorID, "appeal_reviewed", "moderation_appeal", appealID,
		"Appeal "+req.Status, oldStatus, req.Status, nil)

	return &appeal, nil
}

// --- Strikes ---

// IssueStrike records a strike against the user. Reaching
// StrikeBanThreshold active strikes triggers an automatic temporary ban.
func (s *ModerationService) IssueStrike(issuerID uuid.UUID, req *dto.IssueStrikeRequest) (*models.UserStrike, error) {
	if req.Reason == "" {
		return nil, errors.New("reason is required")
	}
	severity := req.Severity
	if severity == "" {
		severity = "medium"
	}

	var activeCount int64
	s.db.Model(&models.UserStrike{}).
		Where("user_id = ? AND is_active = ?", req.UserID, true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&activeCount)

	total := int(activeCount) + 1

	strike := models.UserStrike{
		ID:           uuid.New(),
		UserID:       req.UserID,
		IssuedBy:     issuerID,
		Reason:       req.Reason,
		Severity:     severity,
		TotalStrikes: total,
		IsActive:     true,
	}
	if req.ExpiryHours != nil {
		expiry := time.Now().Add(time.Duration(*req.ExpiryHours) * time.Hour)
		strike.ExpiresAt = &expiry
	}

	if err := s.db.Create(&strike).Error; err != nil {
		return nil, fmt.Errorf("failed to create strike: %w", err)
	}

	s.logModeration(&issuerID, "user_strike_issued", "user", req.UserID,
		"Strike issued: "+req.Reason, "", "", map[string]interface{}{
			"total_strikes": total,
		})

	if total >= StrikeBanThreshold {
		duration := AutoBanDurationHours
		_, err := s.BanUser(issuerID, &dto.BanUserRequest{
			UserID:        req.UserID,
			Reason:        fmt.Sprintf("Automatic ban after %d strikes", total),
			BanType:       "temporary",
			DurationHours: &duration,
		})
		if err != nil && !errors.Is(err, ErrAlreadyBanned) {
			return nil, fmt.Errorf("strike escalation failed: %w", err)
		}
	}

	return &strike, nil
}

func (s *ModerationService) ListStrikes(userID uuid.UUID, activeOnly bool) ([]models.UserStrike, error) {
	var strikes []models.UserStrike
	query := s.db.Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", time.Now())
	}
	err := query.Order("created_at DESC").Find(&strikes).Error
	return strikes, err
}

// --- Bans ---

func (s *ModerationService) BanUser(bannedBy uuid.UUID, req *dto.BanUserRequest) (*models.UserBan, error) {
	if req.Reason == "" {
		return nil, errors.New("reason is required")
	}
	banType := req.BanType
	if banType == "" {
		banType = "temporary"
	}
	if banType != "temporary" && banType != "permanent" {
		return nil, errors.New("ban_type must be temporary or permanent")
	}

	banned, err := s.IsBanned(req.UserID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, ErrAlreadyBanned
	}

	ban := models.UserBan{
		ID:            uuid.New(),
		UserID:        req.UserID,
		BannedBy:      bannedBy,
		Reason:        req.Reason,
		BanType:       banType,
		DurationHours: req.DurationHours,
		IsActive:      true,
		AppealAllowed: true,
	}
	if req.AppealAllowed != nil {
		ban.AppealAllowed = *req.AppealAllowed
	}
	if banType == "temporary" && req.DurationHours != nil {
		expiry := time.Now().Add(time.Duration(*req.DurationHours) * time.Hour)
		ban.ExpiresAt = &expiry
	}

	if err := s.db.Create(&ban).Error; err != nil {
		return nil, fmt.Errorf("failed to create ban: %w", err)
	}

	s.logModeration(&bannedBy, "user_banned", "user", req.UserID,
		"User banned: "+req.Reason, "", "", map[string]interface{}{
			"ban_type": banType,
		})

	return &ban, nil
}

// IsBanned reports whether the user has an active ban. Expired temporary
// bans are deactivated lazily on read.
func (s *ModerationService) IsBanned(userID uuid.UUID) (bool, error) {
	var ban models.UserBan
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).First(&ban).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if ban.ExpiresAt != nil && time.Now().After(*ban.ExpiresAt) {
		if err := s.db.Model(&ban).Update("is_active", false).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (s *ModerationService) LiftBan(banID, moderatorID uuid.UUID) error {
	result := s.db.Model(&models.UserBan{}).
		Where("id = ? AND is_active = ?", banID, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBanNotFound
	}

	s.logModeration(&moderatorID, "ban_lifted", "user_ban", banID, "Ban lifted", "", "", nil)
	return nil
}

func (s *ModerationService) AppealBan(appellantID uuid.UUID, req *dto.CreateBanAppealRequest) (*models.BanAppeal, error) {
	if req.Reason == "" {
		return nil, errors.New("reason is required")
	}

	var ban models.UserBan
	if err := s.db.First(&ban, "id = ?", req.BanID).Error; err != nil {
		return nil, ErrBanNotFound
	}
	if !ban.AppealAllowed {
		return nil, ErrAppealNotAllowed
	}

	var existing models.BanAppeal
	err := s.db.Where("ban_id = ? AND appellant_id = ?", req.BanID, appellantID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyAppealed
	}

	appeal := models.BanAppeal{
		ID:          uuid.New(),
		BanID:       req.BanID,
		AppellantID: appellantID,
		Reason:      req.Reason,
		Evidence:    req.Evidence,
		Status:      "pending",
	}
	if err := s.db.Create(&appeal).Error; err != nil {
		return nil, fmt.Errorf("failed to create ban appeal: %w", err)
	}

	s.logModeration(nil, "ban_appeal_submitted", "user_ban", req.BanID,
		"Ban appeal submitted", "", "", map[string]interface{}{"appeal_id": appeal.ID.String()})

	return &appeal, nil
}

func (s *ModerationService) ReviewBanAppeal(appealID, moderatorID uuid.UUID, req *dto.ReviewAppealRequest) (*models.BanAppeal, error) {
	validStatuses := map[string]bool{"approved": true, "denied": true, "under_review": true}
	if !validStatuses[req.Status] {
		return nil, errors.New("invalid status: must be approved, denied, or under_review")
	}

	var appeal models.BanAppeal
	if err := s.db.First(&appeal, "id = ?", appealID).Error; err != nil {
		return nil, ErrAppealNotFound
	}

	oldStatus := appeal.Status
	now := time.Now()
	if err := s.db.Model(&appeal).Updates(map[string]interface{}{
		"status":       req.Status,
		"review_notes": req.ReviewNotes,
		"reviewed_by":  moderatorID,
		"reviewed_at":  now,
	}).Error; err != nil {
		return nil, err
	}

	// An approved appeal lifts the ban.
	if req.Status == "approved" {
		if err := s.LiftBan(appeal.BanID, moderatorID); err != nil && !errors.Is(err, ErrBanNotFound) {
			return nil, err
		}
	}

	s.logModeration(&moderatorID, "ban_appeal_reviewed", "ban_appeal", appealID,
		"Ban appeal "+req.Status, oldStatus, req.Status, nil)

	return &appeal, nil
}

// --- AI moderation stub ---

// ModerateContent runs the placeholder AI moderation pass. Confidences are
// fixed per check type until a real provider is wired in; flags above the
// per-type threshold are persisted as ContentFlag rows.
func (s *ModerationService) ModerateContent(req *dto.AIModerationRequest) (*dto.AIModerationResult, error) {
	checkTypes := req.CheckTypes
	if len(checkTypes) == 0 {
		checkTypes = []string{"spam", "hate_speech", "fake_news"}
	}

	result := &dto.AIModerationResult{
		ContentID:        req.ContentID,
		Flags:            []dto.AIModerationFlag{},
		ConfidenceScores: make(map[string]float64),
	}

	for _, checkType := range checkTypes {
		confidence, ok := aiStubConfidence[checkType]
		if !ok {
			continue
		}
		result.ConfidenceScores[checkType] = confidence

		if confidence > aiFlagThreshold[checkType] {
			flag := dto.AIModerationFlag{
				Type:       checkType,
				Confidence: confidence,
				Reason:     "Detected " + checkType + " patterns",
			}
			result.Flags = append(result.Flags, flag)

			record := models.ContentFlag{
				ID:              uuid.New(),
				ContentType:     req.ContentType,
				ContentID:       req.ContentID,
				FlagType:        checkType,
				ConfidenceScore: confidence,
				DetectedText:    req.ContentText,
				FlaggedBy:       "ai_moderation_service",
				Status:          "active",
			}
			if err := s.db.Create(&record).Error; err != nil {
				return nil, fmt.Errorf("failed to persist content flag: %w", err)
			}
		}
	}

	for _, score := range result.ConfidenceScores {
		if score > result.OverallRiskScore {
			result.OverallRiskScore = score
		}
	}

	switch {
	case result.OverallRiskScore > 0.8:
		result.RecommendedAction = "remove"
	case result.OverallRiskScore > 0.5:
		result.RecommendedAction = "flag_for_review"
	default:
		result.RecommendedAction = "allow"
	}

	return result, nil
}

func (s *ModerationService) ListFlags(status string, limit, offset int) ([]models.ContentFlag, int64, error) {
	var flags []models.ContentFlag
	var total int64

	query := s.db.Model(&models.ContentFlag{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&flags).Error; err != nil {
		return nil, 0, err
	}
	return flags, total, nil
}

func (s *ModerationService) ResolveFlag(flagID, moderatorID uuid.UUID, status string) error {
	if status != "resolved" && status != "dismissed" {
		return errors.New("status must be resolved or dismissed")
	}

	now := time.Now()
	result := s.db.Model(&models.ContentFlag{}).
		Where("id = ? AND status = ?", flagID, "active").
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": moderatorID,
			"resolved_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFlagNotFound
	}
	return nil
}

// --- Blocks ---

func (s *ModerationService) BlockUser(blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}

	var existing models.Block
	if err := s.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).First(&existing).Error; err == nil {
		return ErrAlreadyBlocked
	}

	block := models.Block{
		ID:        uuid.New(),
		BlockerID: blockerID,
		BlockedID: blockedID,
	}
	return s.db.Create(&block).Error
}

func (s *ModerationService) UnblockUser(blockerID, blockedID uuid.UUID) error {
	return s.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error
}

func (s *ModerationService) GetBlockedIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var blocks []models.Block
	if err := s.db.Where("blocker_id = ?", userID).Find(&blocks).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(blocks))
	for i, b := range blocks {
		ids[i] = b.BlockedID
	}
	return ids, nil
}

// IsBlockedEither reports whether either user has blocked the other.
func (s *ModerationService) IsBlockedEither(a, b uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// --- Audit log ---

func (s *ModerationService) logModeration(moderatorID *uuid.UUID, actionType, targetType string, targetID uuid.UUID, description, oldValue, newValue string, extra map[string]interface{}) {
	entry := models.ModerationLog{
		ID:          uuid.New(),
		ModeratorID: moderatorID,
		ActionType:  actionType,
		TargetType:  targetType,
		TargetID:    targetID,
		Description: description,
		OldValue:    oldValue,
		NewValue:    newValue,
	}
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}
	// Audit logging must not fail the moderation operation itself.
	if err := s.db.Create(&entry).Error; err != nil {
		slog.Error("failed to write moderation log", "action", actionType, "error", err)
	}
}

func (s *ModerationService) ListModerationLogs(targetID *uuid.UUID, limit, offset int) ([]models.ModerationLog, error) {
	var logs []models.ModerationLog
	query := s.db.Model(&models.ModerationLog{})
	if targetID != nil {
		query = query.Where("target_id = ?", *targetID)
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, err
}
