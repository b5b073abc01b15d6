package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	profileerrors "go-userhub/internal/profile/errors"
	"go-userhub/internal/shared/counter"
	"go-userhub/internal/user"
	usererrors "go-userhub/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Upsert(ctx context.Context, userID string, req UpsertProfileRequest) (ProfileResponse, error)
	GetByUserID(ctx context.Context, userID string) (ProfileResponse, error)
	Delete(ctx context.Context, userID string) error
}

type service struct {
	repo    Repository
	users   user.Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(repo Repository, users user.Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("profile.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.service")
	}
	return &service{repo: repo, users: users, counter: counterRepo, logger: l}
}

// Upsert membuat atau memperbarui profil milik user. Employee number
// hanya di-generate sekali, saat user sudah tergabung di organisasi dan
// profilnya belum punya nomor.
func (s *service) Upsert(ctx context.Context, userID string, req UpsertProfileRequest) (ProfileResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidUserID
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, usererrors.ErrUserNotFound
		}
		return ProfileResponse{}, err
	}

	existing, err := s.repo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return ProfileResponse{}, err
	}

	p := &Profile{UserID: uid}
	if existing != nil {
		p = existing
	}

	p.FirstName = req.FirstName
	p.LastName = req.LastName
	p.Phone = req.Phone
	p.JobTitle = req.JobTitle
	p.Department = req.Department
	p.Division = req.Division
	p.Team = req.Team
	p.EmploymentType = req.EmploymentType
	p.Salary = req.Salary
	p.Bio = req.Bio
	p.AvatarURL = req.AvatarURL
	if req.HireDate != "" {
		hd, parseErr := time.Parse("2006-01-02", req.HireDate)
		if parseErr == nil {
			p.HireDate = &hd
		}
	} else {
		p.HireDate = nil
	}

	if p.EmployeeNumber == "" && u.OrganizationID != nil {
		nextVal, cntErr := s.counter.GetNextValue(ctx, u.OrganizationID.String(), "employee_number")
		if cntErr != nil {
			return ProfileResponse{}, cntErr
		}
		p.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return ProfileResponse{}, err
	}

	s.logger.Info("profile upserted", zap.String("user_id", userID))
	return mapToResponse(p), nil
}

func (s *service) GetByUserID(ctx context.Context, userID string) (ProfileResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidUserID
	}

	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, profileerrors.ErrProfileNotFound
		}
		return ProfileResponse{}, err
	}

	return mapToResponse(p), nil
}

func (s *service) Delete(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return profileerrors.ErrInvalidUserID
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return profileerrors.ErrProfileNotFound
		}
		return err
	}

	s.logger.Info("profile deleted", zap.String("user_id", userID))
	return nil
}
