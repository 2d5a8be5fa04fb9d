package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	ContentType string    `json:"content_type"`
	ContentID   uuid.UUID `json:"content_id"`
	Reason      string    `json:"reason"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
}

type ReviewReportRequest struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
}

type CreateActionRequest struct {
	ContentType   string    `json:"content_type"`
	ContentID     uuid.UUID `json:"content_id"`
	ActionType    string    `json:"action_type"`
	Reason        string    `json:"reason"`
	Severity      string    `json:"severity"`
	DurationHours *int      `json:"duration_hours"`
}

type CreateAppealRequest struct {
	ActionID uuid.UUID `json:"action_id"`
	Reason   string    `json:"reason"`
	Evidence string    `json:"evidence"`
}

type ReviewAppealRequest struct {
	Status      string `json:"status"`
	ReviewNotes string `json:"review_notes"`
}

type IssueStrikeRequest struct {
	UserID      uuid.UUID `json:"user_id"`
	Reason      string    `json:"reason"`
	Severity    string    `json:"severity"`
	ExpiryHours *int      `json:"expiry_hours"`
}

type BanUserRequest struct {
	UserID        uuid.UUID `json:"user_id"`
	Reason        string    `json:"reason"`
	BanType       string    `json:"ban_type"`
	DurationHours *int      `json:"duration_hours"`
	AppealAllowed *bool     `json:"appeal_allowed"`
}

type CreateBanAppealRequest struct {
	BanID    uuid.UUID `json:"ban_id"`
	Reason   string    `json:"reason"`
	Evidence string    `json:"evidence"`
}

type BlockUserRequest struct {
	BlockedID uuid.UUID `json:"blocked_id"`
}

type AIModerationRequest struct {
	ContentType string    `json:"content_type"`
	ContentID   uuid.UUID `json:"content_id"`
	ContentText string    `json:"content_text"`
	CheckTypes  []string  `json:"check_types"`
}

type AIModerationFlag struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type AIModerationResult struct {
	ContentID         uuid.UUID          `json:"content_id"`
	Flags             []AIModerationFlag `json:"flags"`
	OverallRiskScore  float64            `json:"overall_risk_score"`
	RecommendedAction string             `json:"recommended_action"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
}
