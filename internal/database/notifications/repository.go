// Package notifications provides database operations for user-visible
// notices.
//
// # Interface Implementation
//
//	var _ importer.Notifier = (*Repository)(nil)
package notifications

import (
	"context"

	"gorm.io/gorm"

	"github.com/bookmoth/bookmoth/internal/entities"
)

// Repository handles all notification database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notifications repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Notify records a user-visible notice referencing an import batch.
func (r *Repository) Notify(ctx context.Context, userID uint, kind entities.NotificationKind, batchID uint) error {
	notification := &entities.Notification{
		UserID:        userID,
		Kind:          kind,
		ImportBatchID: &batchID,
	}
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetUnread retrieves a user's unread notifications, newest first.
func (r *Repository) GetUnread(userID uint) ([]entities.Notification, error) {
	var notifications []entities.Notification
	err := r.db.Where("user_id = ? AND read = ?", userID, false).
		Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkRead flags a notification as read.
func (r *Repository) MarkRead(id uint) error {
	return r.db.Model(&entities.Notification{}).Where("id = ?", id).
		Update("read", true).Error
}
