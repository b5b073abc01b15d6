package organization

import (
	"time"

	"github.com/google/uuid"
)

// OfficeLocation adalah lokasi kantor terdaftar milik organisasi. Nama
// lokasi dirujuk oleh field office_location pada anggota.
type OfficeLocation struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_office_location_org_name"`
	Name           string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_office_location_org_name"`
	Address        string    `gorm:"type:text"`
	Timezone       string    `gorm:"type:varchar(64)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (OfficeLocation) TableName() string {
	return "office_locations"
}
