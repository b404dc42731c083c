package notification

import (
	"github.com/google/uuid"

	"github.com/OpenDataspace/portal/internal/marketplace/model"
)

// Type classifies an in-app notification.
type Type string

const (
	TypeSubscriptionRequest Type = "SUBSCRIPTION_REQUEST"
)

// Notification is an in-app message shown to an operator user.
type Notification struct {
	model.BaseModel
	ReceiverUserID   uuid.UUID `gorm:"type:uuid;column:receiver_user_id;not null;index" json:"receiverUserId"`
	NotificationType Type      `gorm:"type:varchar(40);column:notification_type;not null" json:"notificationType"`
	Content          string    `gorm:"type:text;column:content;not null" json:"content"`
	IsRead           bool      `gorm:"column:is_read;not null;default:false" json:"isRead"`
}

func (n *Notification) TableName() string {
	return "notifications"
}
