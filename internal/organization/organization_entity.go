package organization

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organization struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"type:varchar(150);not null"`
	Email    string    `gorm:"type:varchar(255);index"`
	Timezone string    `gorm:"type:varchar(64);not null;default:'UTC'"`
	// UserLimit 0 berarti tanpa batas anggota.
	UserLimit        int              `gorm:"not null;default:0"`
	RequiresApproval bool             `gorm:"not null;default:false"`
	IsActive         bool             `gorm:"not null;default:true"`
	OwnerUserID      *uuid.UUID       `gorm:"column:owner_user_id;type:uuid"`
	CreatedAt        time.Time        `gorm:"not null;default:now()"`
	UpdatedAt        time.Time        `gorm:"not null;default:now()"`
	DeletedAt        gorm.DeletedAt   `gorm:"index"`
	Locations        []OfficeLocation `gorm:"foreignKey:OrganizationID"`
}

func (Organization) TableName() string {
	return "organizations"
}
