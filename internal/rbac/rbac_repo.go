package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetMemberGrants(organizationID string) ([]MemberGrantRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// MemberGrantRow adalah proyeksi minimal baris user yang dibutuhkan untuk
// menyusun policy: posisi menentukan role, flag menentukan role aditif,
// permissions adalah grant eksplisit per user.
type MemberGrantRow struct {
	UserID      string
	Position    string
	IsAdmin     bool
	IsOwner     bool
	Permissions []byte
}

func (r *repository) GetMemberGrants(organizationID string) ([]MemberGrantRow, error) {
	var result []MemberGrantRow

	err := r.db.
		Table("users").
		Select(`
			users.id::text AS user_id,
			COALESCE(users.organization_position, '') AS position,
			users.is_organization_admin AS is_admin,
			users.is_organization_owner AS is_owner,
			users.organization_permissions AS permissions`).
		Where("users.organization_id = ?", organizationID).
		Where("users.organization_left_at IS NULL").
		Where("users.deleted_at IS NULL").
		Scan(&result).Error

	return result, err
}
