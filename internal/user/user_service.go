package user

import (
	"context"
	"strings"

	"go-userhub/internal/audit"
	"go-userhub/internal/shared/contextutil"
	usererrors "go-userhub/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Config dibawa eksplisit saat konstruksi, bukan dibaca dari global state.
type Config struct {
	DefaultUserType      string
	PreventPasswordReuse int // jumlah password lama yang tidak boleh dipakai ulang, 0 = off
}

func DefaultConfig() Config {
	return Config{
		DefaultUserType:      TypeUser,
		PreventPasswordReuse: 5,
	}
}

// TypeRules adalah kontrak minimal terhadap registry user-type.
// Dideklarasikan di sini agar paket usertype bisa mengimpor entity User
// tanpa siklus impor.
type TypeRules interface {
	Known(userType string) bool
	InitialStatus(userType string) string
	DefaultPermissions(userType string) []string
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, id string) (UserResponse, error)
	GetByEmail(ctx context.Context, email string) (UserResponse, error)
	GetAllByType(ctx context.Context, userType string) ([]UserResponse, error)

	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error

	Activate(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	Suspend(ctx context.Context, id string) error
	Ban(ctx context.Context, id string) error

	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, id, newPassword string) error
}

type service struct {
	repo      Repository
	typeRules TypeRules
	auditor   audit.Recorder
	cfg       Config
	logger    *zap.Logger
}

func NewService(repo Repository, typeRules TypeRules, auditor audit.Recorder, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	if cfg.DefaultUserType == "" {
		cfg.DefaultUserType = TypeUser
	}
	return &service{
		repo:      repo,
		typeRules: typeRules,
		auditor:   auditor,
		cfg:       cfg,
		logger:    l,
	}
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (UserResponse, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) GetAllByType(ctx context.Context, userType string) ([]UserResponse, error) {
	users, err := s.repo.FindAllByType(ctx, userType)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(users), nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	userType := strings.TrimSpace(req.UserType)
	if userType == "" {
		userType = s.cfg.DefaultUserType
	}
	if s.typeRules != nil && !s.typeRules.Known(userType) {
		return UserResponse{}, usererrors.ErrUnknownUserType
	}

	l.Info("creating user",
		zap.String("email", req.Email),
		zap.String("user_type", userType),
	)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return UserResponse{}, err
	}

	status := StatusPending
	if s.typeRules != nil {
		status = s.typeRules.InitialStatus(userType)
	}

	u := &User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		UserType: userType,
		Status:   status,
		Timezone: req.Timezone,
		Locale:   req.Locale,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		l.Error("failed to create user", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := s.repo.AddPasswordHistory(ctx, &PasswordHistory{
		ID:       uuid.New(),
		UserID:   u.ID,
		Password: u.Password,
	}); err != nil {
		l.Warn("failed to record password history", zap.Error(err))
	}

	s.record(ctx, u.ID.String(), "user.created", nil, mapToResponse(*u))
	l.Info("user created", zap.String("user_id", u.ID.String()))

	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	before := mapToResponse(*u)

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.Timezone != "" {
		u.Timezone = req.Timezone
	}
	if req.Locale != "" {
		u.Locale = req.Locale
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	s.record(ctx, id, "user.updated", before, mapToResponse(*u))
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	s.record(ctx, id, "user.deleted", mapToResponse(*u), nil)
	return nil
}

func (s *service) Activate(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusActive, "user.activated",
		StatusPending, StatusInactive, StatusSuspended)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusInactive, "user.deactivated", StatusActive)
}

func (s *service) Suspend(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusSuspended, "user.suspended", StatusActive, StatusPending)
}

func (s *service) Ban(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusBanned, "user.banned",
		StatusPending, StatusActive, StatusInactive, StatusSuspended)
}

func (s *service) transition(ctx context.Context, id, target, action string, allowedFrom ...string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	allowed := false
	for _, from := range allowedFrom {
		if u.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		l.Warn("status transition rejected",
			zap.String("user_id", id),
			zap.String("from", u.Status),
			zap.String("to", target),
		)
		return usererrors.ErrInvalidStatusTransition
	}

	before := u.Status
	u.Status = target
	if err := s.repo.Update(ctx, u); err != nil {
		return mapRepositoryError(err)
	}

	s.record(ctx, id, action, map[string]any{"status": before}, map[string]any{"status": target})
	return nil
}

func (s *service) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}

	return s.setPassword(ctx, u, newPassword)
}

func (s *service) ResetPassword(ctx context.Context, id, newPassword string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	return s.setPassword(ctx, u, newPassword)
}

func (s *service) setPassword(ctx context.Context, u *User, newPassword string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if s.cfg.PreventPasswordReuse > 0 {
		recent, err := s.repo.RecentPasswords(ctx, u.ID.String(), s.cfg.PreventPasswordReuse)
		if err != nil {
			return mapRepositoryError(err)
		}
		for _, h := range recent {
			if bcrypt.CompareHashAndPassword([]byte(h.Password), []byte(newPassword)) == nil {
				return usererrors.ErrPasswordRecentlyUsed
			}
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash new password", zap.Error(err))
		return err
	}

	u.Password = string(hashed)
	if err := s.repo.Update(ctx, u); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.AddPasswordHistory(ctx, &PasswordHistory{
		ID:       uuid.New(),
		UserID:   u.ID,
		Password: u.Password,
	}); err != nil {
		l.Warn("failed to record password history", zap.Error(err))
	}

	s.record(ctx, u.ID.String(), "user.password_changed", nil, nil)
	return nil
}

func (s *service) record(ctx context.Context, subjectID, action string, before, after any) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, contextutil.GetUserID(ctx), subjectID, action, before, after)
}
