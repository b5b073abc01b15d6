package user

import (
	"context"
	"database/sql"
	"strings"

	"go-userhub/internal/tenant"

	"gorm.io/gorm"
)

// MemberFilter menyaring daftar anggota organisasi.
type MemberFilter struct {
	Position     string
	WorkLocation string
	Status       string
	AdminsOnly   bool
	ManagersOnly bool
	Search       string
}

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDInOrganization(ctx context.Context, organizationID, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAllByOrganization(ctx context.Context, organizationID string, filter MemberFilter) ([]User, error)
	FindAllByType(ctx context.Context, userType string) ([]User, error)

	// Hierarchy lookups
	FindDirectReports(ctx context.Context, managerID string) ([]User, error)
	FindByPrimaryManager(ctx context.Context, managerID string) ([]User, error)
	FindBySecondaryManager(ctx context.Context, managerID string) ([]User, error)
	FindOrganizationRoots(ctx context.Context, organizationID string) ([]User, error)
	CountActiveByOrganization(ctx context.Context, organizationID string) (int64, error)

	Update(ctx context.Context, u *User) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error

	// Password history & login attempts
	AddPasswordHistory(ctx context.Context, h *PasswordHistory) error
	RecentPasswords(ctx context.Context, userID string, limit int) ([]PasswordHistory, error)
	RecordLoginAttempt(ctx context.Context, a *LoginAttempt) error
	CountRecentFailedLogins(ctx context.Context, email string, withinMinutes int) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByIDInOrganization(ctx context.Context, organizationID, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindAllByOrganization(ctx context.Context, organizationID string, filter MemberFilter) ([]User, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.ActiveMembers(organizationID))

	if filter.Position != "" {
		q = q.Where("organization_position = ?", filter.Position)
	}
	if filter.WorkLocation != "" {
		q = q.Where("work_location = ?", filter.WorkLocation)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AdminsOnly {
		q = q.Where("is_organization_admin = true OR is_organization_owner = true")
	}
	if filter.ManagersOnly {
		q = q.Where(`EXISTS (
			SELECT 1 FROM users u
			WHERE u.primary_manager_id = users.id OR u.secondary_manager_id = users.id
		)`)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []User
	err := q.Find(&users).Error
	return users, err
}

func (r *repository) FindAllByType(ctx context.Context, userType string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Find(&users, "user_type = ?", userType).Error
	return users, err
}

func (r *repository) FindDirectReports(ctx context.Context, managerID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Find(&users, "reports_to_user_id = ?", managerID).Error
	return users, err
}

func (r *repository) FindByPrimaryManager(ctx context.Context, managerID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Find(&users, "primary_manager_id = ?", managerID).Error
	return users, err
}

func (r *repository) FindBySecondaryManager(ctx context.Context, managerID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Find(&users, "secondary_manager_id = ?", managerID).Error
	return users, err
}

func (r *repository) FindOrganizationRoots(ctx context.Context, organizationID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Scopes(tenant.ActiveMembers(organizationID)).
		Where("reports_to_user_id IS NULL").
		Find(&users).Error
	return users, err
}

func (r *repository) CountActiveByOrganization(ctx context.Context, organizationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Scopes(tenant.ActiveMembers(organizationID)).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// UpdateFields dipakai untuk mutasi parsial (termasuk set kolom ke NULL),
// Save tidak bisa karena akan menimpa seluruh baris.
func (r *repository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

func (r *repository) AddPasswordHistory(ctx context.Context, h *PasswordHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) RecentPasswords(ctx context.Context, userID string, limit int) ([]PasswordHistory, error) {
	var history []PasswordHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&history).Error
	return history, err
}

func (r *repository) RecordLoginAttempt(ctx context.Context, a *LoginAttempt) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) CountRecentFailedLogins(ctx context.Context, email string, withinMinutes int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LoginAttempt{}).
		Where("email = ? AND successful = false", email).
		Where("created_at > NOW() - (? * INTERVAL '1 minute')", withinMinutes).
		Count(&count).Error
	return count, err
}
