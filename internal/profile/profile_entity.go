package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EmploymentTypeFullTime   = "full_time"
	EmploymentTypePartTime   = "part_time"
	EmploymentTypeContract   = "contract"
	EmploymentTypeInternship = "internship"
)

// Profile melengkapi baris user dengan data kepegawaian dan personal yang
// tidak dibutuhkan oleh core lifecycle.
type Profile struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FirstName      string     `gorm:"type:varchar(100)"`
	LastName       string     `gorm:"type:varchar(100)"`
	Phone          string     `gorm:"type:varchar(30)"`
	JobTitle       string     `gorm:"type:varchar(150)"`
	EmployeeNumber string     `gorm:"type:varchar(30);index"`
	Department     string     `gorm:"type:varchar(100)"`
	Division       string     `gorm:"type:varchar(100)"`
	Team           string     `gorm:"type:varchar(100)"`
	HireDate       *time.Time `gorm:"column:hire_date"`
	EmploymentType string     `gorm:"type:varchar(30)"`
	Salary         *float64   `gorm:"type:numeric(14,2)"`
	Bio            string     `gorm:"type:text"`
	AvatarURL      string     `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
