package tenant

import "gorm.io/gorm"

// Scope membatasi query ke satu organisasi
func Scope(organizationID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}

// ActiveMembers membatasi query ke anggota organisasi yang belum keluar
func ActiveMembers(organizationID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID).
			Where("organization_left_at IS NULL")
	}
}
