package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User status constants.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusBanned    = "banned"
)

// User type constants.
const (
	TypeUser         = "user"
	TypeClient       = "client"
	TypeAdmin        = "admin"
	TypeSystem       = "system"
	TypeOrganization = "organization"
)

type User struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string     `gorm:"column:name;type:varchar(255);not null"`
	Email           string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password        string     `gorm:"column:password;type:text;not null"`
	UserType        string     `gorm:"column:user_type;type:varchar(50);default:user;index"`
	Status          string     `gorm:"column:status;type:varchar(50);default:pending;index"`
	EmailVerifiedAt *time.Time `gorm:"column:email_verified_at"`
	LastLoginAt     *time.Time `gorm:"column:last_login_at"`
	LastLoginIP     string     `gorm:"column:last_login_ip;type:varchar(45)"`
	Timezone        string     `gorm:"column:timezone;type:varchar(64)"`
	Locale          string     `gorm:"column:locale;type:varchar(10)"`

	// Organization membership & hierarchy pointers. Manager references are
	// stored as IDs, never embedded structs: the same row can appear on both
	// ends of reports_to, primary_manager and secondary_manager edges.
	OrganizationID          *uuid.UUID     `gorm:"column:organization_id;type:uuid;index"`
	OrganizationPosition    *string        `gorm:"column:organization_position;type:varchar(255)"`
	IsOrganizationAdmin     bool           `gorm:"column:is_organization_admin;default:false"`
	IsOrganizationOwner     bool           `gorm:"column:is_organization_owner;default:false"`
	ReportsToUserID         *uuid.UUID     `gorm:"column:reports_to_user_id;type:uuid;index"`
	PrimaryManagerID        *uuid.UUID     `gorm:"column:primary_manager_id;type:uuid;index"`
	SecondaryManagerID      *uuid.UUID     `gorm:"column:secondary_manager_id;type:uuid;index"`
	OrganizationPermissions PermissionList `gorm:"column:organization_permissions;type:jsonb"`
	OrganizationSettings    JSONMap        `gorm:"column:organization_settings;type:jsonb"`
	OrganizationJoinedAt    *time.Time     `gorm:"column:organization_joined_at"`
	OrganizationLeftAt      *time.Time     `gorm:"column:organization_left_at"`
	WorkLocation            string         `gorm:"column:work_location;type:varchar(20)"`
	OfficeLocation          string         `gorm:"column:office_location;type:varchar(255)"`
	WorkSchedule            *WorkSchedule  `gorm:"column:work_schedule;type:jsonb"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsPending() bool {
	return u.Status == StatusPending
}

// BelongsToOrganization melaporkan apakah user adalah anggota organisasi.
// Jika orgID kosong, cukup cek keanggotaan apapun.
func (u *User) BelongsToOrganization(orgID string) bool {
	if u.OrganizationID == nil {
		return false
	}
	if orgID == "" {
		return true
	}
	return u.OrganizationID.String() == orgID
}

// EffectiveOrganizationAdmin: owner selalu dianggap admin untuk keperluan
// permission, meskipun flag admin di kolomnya tidak diubah.
func (u *User) EffectiveOrganizationAdmin() bool {
	return u.IsOrganizationAdmin || u.IsOrganizationOwner
}

// HasOrganizationPermission cek permission eksplisit atau status admin.
func (u *User) HasOrganizationPermission(permission string) bool {
	if u.EffectiveOrganizationAdmin() {
		return true
	}
	for _, p := range u.OrganizationPermissions {
		if p == permission {
			return true
		}
	}
	return false
}

// PermissionList adalah []string yang disimpan sebagai jsonb.
type PermissionList []string

func (p PermissionList) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PermissionList) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return errors.New("permission list: unsupported scan type")
		}
	}
	return json.Unmarshal(b, p)
}

// JSONMap adalah map bebas yang disimpan sebagai jsonb.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return errors.New("json map: unsupported scan type")
		}
	}
	return json.Unmarshal(b, m)
}

// WorkSchedule disimpan sebagai jsonb pada baris user.
type WorkSchedule struct {
	Timezone     string       `json:"timezone"`
	WorkingDays  []string     `json:"working_days"`
	WorkingHours WorkingHours `json:"working_hours"`
}

type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (w WorkSchedule) Value() (driver.Value, error) {
	return json.Marshal(w)
}

func (w *WorkSchedule) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return errors.New("work schedule: unsupported scan type")
		}
	}
	return json.Unmarshal(b, w)
}

// PasswordHistory menyimpan hash lama untuk pencegahan pemakaian ulang password.
type PasswordHistory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Password  string    `gorm:"column:password;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PasswordHistory) TableName() string {
	return "password_histories"
}

// LoginAttempt dicatat per percobaan login untuk lockout dan audit.
type LoginAttempt struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	Email      string    `gorm:"column:email;type:text;not null;index"`
	IPAddress  string    `gorm:"column:ip_address;type:varchar(45)"`
	UserAgent  string    `gorm:"column:user_agent;type:text"`
	Successful bool      `gorm:"column:successful;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (LoginAttempt) TableName() string {
	return "user_login_attempts"
}
