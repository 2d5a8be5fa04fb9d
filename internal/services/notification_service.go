package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/dto"
	"github.com/pulseapp/pulse-backend/internal/models"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify creates an in-app notification for the recipient, unless the
// recipient has disabled that notification type. A disabled type is dropped
// silently; callers never treat a gated notification as a failure.
func (s *NotificationService) Notify(userID uuid.UUID, actorID *uuid.UUID, notifType, title, message, entityType string, entityID *uuid.UUID) error {
	var pref models.NotificationPreference
	err := s.db.Where("user_id = ? AND type = ?", userID, notifType).First(&pref).Error
	if err == nil && !pref.InAppEnabled {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	notification := models.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		ActorID:    actorID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		Priority:   "medium",
		Status:     "sent",
		EntityType: entityType,
		EntityID:   entityID,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotifyAsync fires Notify without blocking the caller's request. Feed and
// engagement paths use this so a notification failure never fails the write.
func (s *NotificationService) NotifyAsync(userID uuid.UUID, actorID *uuid.UUID, notifType, title, message, entityType string, entityID *uuid.UUID) {
	go func() {
		if err := s.Notify(userID, actorID, notifType, title, message, entityType, entityID); err != nil {
			slog.Error("notification delivery failed", "type", notifType, "user_id", userID.String(), "error", err)
		}
	}()
}

func (s *NotificationService) List(userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) MarkRead(notificationID, userID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Updates(map[string]interface{}{"read_at": now, "status": "read"})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) (int64, error) {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Updates(map[string]interface{}{"read_at": now, "status": "read"})
	return result.RowsAffected, result.Error
}

func (s *NotificationService) Delete(notificationID, userID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// --- Preferences ---

func (s *NotificationService) ListPreferences(userID uuid.UUID) ([]models.NotificationPreference, error) {
	var prefs []models.NotificationPreference
	err := s.db.Where("user_id = ?", userID).Order("type").Find(&prefs).Error
	return prefs, err
}

func (s *NotificationService) UpdatePreference(userID uuid.UUID, req *dto.UpdatePreferenceRequest) (*models.NotificationPreference, error) {
	if req.Type == "" {
		return nil, errors.New("type is required")
	}

	var pref models.NotificationPreference
	err := s.db.Where("user_id = ? AND type = ?", userID, req.Type).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = models.NotificationPreference{
			ID:           uuid.New(),
			UserID:       userID,
			Type:         req.Type,
			InAppEnabled: true,
			PushEnabled:  true,
		}
		if err := s.db.Create(&pref).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.InAppEnabled != nil {
		updates["in_app_enabled"] = *req.InAppEnabled
	}
	if req.PushEnabled != nil {
		updates["push_enabled"] = *req.PushEnabled
	}
	if len(updates) > 0 {
		if err := s.db.Model(&pref).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &pref, nil
}

// --- Devices ---

// RegisterDevice upserts a push device by token. Re-registering a token
// moves it to the current user.
func (s *NotificationService) RegisterDevice(userID uuid.UUID, req *dto.RegisterDeviceRequest) (*models.Device, error) {
	if req.DeviceToken == "" {
		return nil, errors.New("device_token is required")
	}
	validTypes := map[string]bool{"ios": true, "android": true, "web": true}
	if !validTypes[req.DeviceType] {
		return nil, errors.New("device_type must be ios, android, or web")
	}

	now := time.Now()
	var device models.Device
	err := s.db.Where("device_token = ?", req.DeviceToken).First(&device).Error
	if err == nil {
		if err := s.db.Model(&device).Updates(map[string]interface{}{
			"user_id":        userID,
			"device_type":    req.DeviceType,
			"device_name":    req.DeviceName,
			"app_version":    req.AppVersion,
			"last_active_at": now,
		}).Error; err != nil {
			return nil, err
		}
		return &device, nil
	}

	device = models.Device{
		ID:           uuid.New(),
		UserID:       userID,
		DeviceToken:  req.DeviceToken,
		DeviceType:   req.DeviceType,
		DeviceName:   req.DeviceName,
		AppVersion:   req.AppVersion,
		PushEnabled:  true,
		LastActiveAt: now,
	}
	if err := s.db.Create(&device).Error; err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}
	return &device, nil
}

func (s *NotificationService) ListDevices(userID uuid.UUID) ([]models.Device, error) {
	var devices []models.Device
	err := s.db.Where("user_id = ?", userID).Order("last_active_at DESC").Find(&devices).Error
	return devices, err
}

func (s *NotificationService) RemoveDevice(deviceID, userID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", deviceID, userID).Delete(&models.Device{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("device not found")
	}
	return nil
}
