package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindWelcome       = "welcome"
	KindMemberJoined  = "member_joined"
	KindMemberLeft    = "member_left"
	KindRoleChanged   = "role_changed"
	KindTransferred   = "transferred"
	KindAccountStatus = "account_status"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;index;not null"`
	Kind      string     `gorm:"type:varchar(50);not null"`
	Title     string     `gorm:"type:varchar(255);not null"`
	Message   string     `gorm:"type:text"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
