package audit

import (
	"time"

	"github.com/google/uuid"
)

type ActivityLog struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID    *uuid.UUID `gorm:"column:actor_id;type:uuid;index"`
	SubjectID  *uuid.UUID `gorm:"column:subject_id;type:uuid;index"`
	Action     string    `gorm:"column:action;type:varchar(100);not null;index"`
	RequestID  string    `gorm:"column:request_id;type:varchar(64)"`
	Before     []byte    `gorm:"column:before;type:jsonb"`
	After      []byte    `gorm:"column:after;type:jsonb"`
	OccurredAt time.Time `gorm:"column:occurred_at;autoCreateTime"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
