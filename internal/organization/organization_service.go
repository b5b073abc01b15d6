package organization

import (
	"context"
	"errors"
	"strings"

	organizationerrors "go-userhub/internal/organization/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/organization_service_mock.go -package=mock . Service
type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error)
	GetByID(ctx context.Context, id string) (*OrganizationResponse, error)
	Update(ctx context.Context, id string, req UpdateOrganizationRequest) (*OrganizationResponse, error)

	// HasReachedUserLimit dan DefaultTimezone dipakai oleh lifecycle
	// keanggotaan saat join.
	HasReachedUserLimit(ctx context.Context, organizationID string) (bool, error)
	DefaultTimezone(ctx context.Context, organizationID string) (string, error)

	UpsertLocation(ctx context.Context, organizationID string, req UpsertOfficeLocationRequest) error
	ListLocations(ctx context.Context, organizationID string) ([]OfficeLocationResponse, error)
	DeleteLocation(ctx context.Context, organizationID, name string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("organization.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("organization.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error) {
	org := &Organization{
		ID:               uuid.New(),
		Name:             req.Name,
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Timezone:         req.Timezone,
		UserLimit:        req.UserLimit,
		RequiresApproval: req.RequiresApproval,
		IsActive:         true,
	}
	if org.Timezone == "" {
		org.Timezone = "UTC"
	}
	if req.OwnerUserID != "" {
		oid, err := uuid.Parse(req.OwnerUserID)
		if err != nil {
			return nil, organizationerrors.ErrInvalidOrganizationID
		}
		org.OwnerUserID = &oid
	}

	if err := s.repo.Create(ctx, org); err != nil {
		s.logger.Error("create organization failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("name", org.Name),
	)
	return s.mapToResponse(org, 0), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*OrganizationResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, organizationerrors.ErrInvalidOrganizationID
	}

	org, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	count, err := s.repo.CountActiveMembers(ctx, uid)
	if err != nil {
		return nil, err
	}

	return s.mapToResponse(org, count), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, organizationerrors.ErrInvalidOrganizationID
	}

	org, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	if req.Timezone != "" {
		org.Timezone = req.Timezone
	}
	if req.UserLimit != nil {
		org.UserLimit = *req.UserLimit
	}
	if req.RequiresApproval != nil {
		org.RequiresApproval = *req.RequiresApproval
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, org); err != nil {
		s.logger.Error("update organization failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	count, err := s.repo.CountActiveMembers(ctx, uid)
	if err != nil {
		return nil, err
	}

	return s.mapToResponse(org, count), nil
}

func (s *service) HasReachedUserLimit(ctx context.Context, organizationID string) (bool, error) {
	uid, err := uuid.Parse(organizationID)
	if err != nil {
		return false, organizationerrors.ErrInvalidOrganizationID
	}

	org, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return false, mapRepositoryError(err)
	}
	if !org.IsActive {
		return false, organizationerrors.ErrOrganizationInactive
	}
	if org.UserLimit <= 0 {
		return false, nil
	}

	count, err := s.repo.CountActiveMembers(ctx, uid)
	if err != nil {
		return false, err
	}
	return count >= int64(org.UserLimit), nil
}

func (s *service) DefaultTimezone(ctx context.Context, organizationID string) (string, error) {
	uid, err := uuid.Parse(organizationID)
	if err != nil {
		return "", organizationerrors.ErrInvalidOrganizationID
	}

	org, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return "", mapRepositoryError(err)
	}
	if org.Timezone == "" {
		return "UTC", nil
	}
	return org.Timezone, nil
}

func (s *service) UpsertLocation(ctx context.Context, organizationID string, req UpsertOfficeLocationRequest) error {
	uid, err := uuid.Parse(organizationID)
	if err != nil {
		return organizationerrors.ErrInvalidOrganizationID
	}

	if strings.TrimSpace(req.Name) == "" {
		return organizationerrors.ErrMissingRequiredFields
	}

	loc := &OfficeLocation{
		ID:             uuid.New(),
		OrganizationID: uid,
		Name:           req.Name,
		Address:        req.Address,
		Timezone:       req.Timezone,
	}

	return s.repo.UpsertLocation(ctx, loc)
}

func (s *service) ListLocations(ctx context.Context, organizationID string) ([]OfficeLocationResponse, error) {
	uid, err := uuid.Parse(organizationID)
	if err != nil {
		return nil, organizationerrors.ErrInvalidOrganizationID
	}

	locs, err := s.repo.GetLocationsByOrganizationID(ctx, uid)
	if err != nil {
		return nil, err
	}

	var result []OfficeLocationResponse
	for _, loc := range locs {
		result = append(result, OfficeLocationResponse{
			ID:        loc.ID.String(),
			Name:      loc.Name,
			Address:   loc.Address,
			Timezone:  loc.Timezone,
			CreatedAt: loc.CreatedAt,
			UpdatedAt: loc.UpdatedAt,
		})
	}

	return result, nil
}

func (s *service) DeleteLocation(ctx context.Context, organizationID, name string) error {
	uid, err := uuid.Parse(organizationID)
	if err != nil {
		return organizationerrors.ErrInvalidOrganizationID
	}
	if name == "" {
		return organizationerrors.ErrMissingRequiredFields
	}

	if err := s.repo.DeleteLocation(ctx, uid, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return organizationerrors.ErrLocationNotFound
		}
		return err
	}
	return nil
}

func (s *service) mapToResponse(org *Organization, memberCount int64) *OrganizationResponse {
	resp := &OrganizationResponse{
		ID:               org.ID.String(),
		Name:             org.Name,
		Email:            org.Email,
		Timezone:         org.Timezone,
		UserLimit:        org.UserLimit,
		RequiresApproval: org.RequiresApproval,
		IsActive:         org.IsActive,
		MemberCount:      memberCount,
	}
	if org.OwnerUserID != nil {
		resp.OwnerUserID = org.OwnerUserID.String()
	}
	return resp
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return organizationerrors.ErrOrganizationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return organizationerrors.ErrOrganizationAlreadyExists
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return organizationerrors.ErrOrganizationAlreadyExists
	}

	return err
}
