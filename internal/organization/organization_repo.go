package organization

import (
	"context"

	"go-userhub/internal/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -destination=mock/organization_repo_mock.go -package=mock . Repository
type Repository interface {
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetByEmail(ctx context.Context, email string) (*Organization, error)
	Update(ctx context.Context, org *Organization) error
	CountActiveMembers(ctx context.Context, id uuid.UUID) (int64, error)

	UpsertLocation(ctx context.Context, loc *OfficeLocation) error
	GetLocationsByOrganizationID(ctx context.Context, id uuid.UUID) ([]OfficeLocation, error)
	DeleteLocation(ctx context.Context, id uuid.UUID, name string) error

	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, org *Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	var org Organization
	err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error
	return &org, err
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Organization, error) {
	var org Organization
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&org).Error
	return &org, err
}

func (r *repository) Update(ctx context.Context, org *Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

func (r *repository) CountActiveMembers(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("organization_id = ? AND organization_left_at IS NULL", id).
		Count(&count).Error
	return count, err
}

func (r *repository) UpsertLocation(ctx context.Context, loc *OfficeLocation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "organization_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"address", "timezone", "updated_at",
			}),
		}).
		Create(loc).Error
}

func (r *repository) GetLocationsByOrganizationID(ctx context.Context, id uuid.UUID) ([]OfficeLocation, error) {
	var locs []OfficeLocation
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", id).
		Order("name ASC").
		Find(&locs).Error
	return locs, err
}

func (r *repository) DeleteLocation(ctx context.Context, id uuid.UUID, name string) error {
	res := r.db.WithContext(ctx).
		Where("organization_id = ? AND name = ?", id, name).
		Delete(&OfficeLocation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
