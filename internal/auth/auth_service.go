package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	autherrors "go-userhub/internal/auth/errors"
	"go-userhub/internal/events"
	"go-userhub/internal/membership"
	"go-userhub/internal/messaging/kafka"
	"go-userhub/internal/rbac"
	"go-userhub/internal/shared/contextutil"
	"go-userhub/internal/user"
	"go-userhub/internal/usertype"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Config struct {
	MaxLoginAttempts     int
	LockoutWindowMinutes int
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxLoginAttempts:     5,
		LockoutWindowMinutes: 15,
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      7 * 24 * time.Hour,
	}
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string, meta LoginMeta) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

// LoginMeta ikut dicatat di setiap percobaan login.
type LoginMeta struct {
	IPAddress string
	UserAgent string
}

type service struct {
	db     *sql.DB
	repo   user.Repository
	types  *usertype.Registry
	rbac   rbac.Service
	outbox kafka.OutboxRepository
	cfg    Config
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo user.Repository,
	types *usertype.Registry,
	rbacService rbac.Service,
	outboxRepo kafka.OutboxRepository,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if cfg.MaxLoginAttempts <= 0 {
		cfg = DefaultConfig()
	}
	return &service{
		db:     db,
		repo:   repo,
		types:  types,
		rbac:   rbacService,
		outbox: outboxRepo,
		cfg:    cfg,
		logger: l,
	}
}

func (s *service) Login(
	ctx context.Context,
	email, password string,
	meta LoginMeta,
) (accessToken, refreshToken string, resp AuthResponse, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// 1. Lockout check sebelum apapun
	failed, err := s.repo.CountRecentFailedLogins(ctx, email, s.cfg.LockoutWindowMinutes)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	if failed >= int64(s.cfg.MaxLoginAttempts) {
		s.logger.Warn("login blocked by lockout", zap.String("email", email))
		return "", "", AuthResponse{}, autherrors.ErrAccountLocked
	}

	// 2. Ambil user
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.recordAttempt(ctx, nil, email, meta, false)
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// 3. Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.recordAttempt(ctx, &u.ID, email, meta, false)
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive() {
		s.recordAttempt(ctx, &u.ID, email, meta, false)
		return "", "", AuthResponse{}, autherrors.ErrAccountNotActive
	}

	s.recordAttempt(ctx, &u.ID, email, meta, true)

	organizationID := ""
	if u.OrganizationID != nil {
		organizationID = u.OrganizationID.String()
	}

	// 4. Muat policy organisasi untuk Casbin
	if organizationID != "" && s.rbac != nil {
		if err := s.rbac.LoadOrganizationPolicy(organizationID); err != nil {
			return "", "", AuthResponse{}, err
		}
	}

	accessToken, err = s.generateToken(u.ID.String(), organizationID, u.UserType, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err = s.generateToken(u.ID.String(), organizationID, u.UserType, s.cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, s.mapToResponse(u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	if _, err := uuid.Parse(userIDStr); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !u.IsActive() {
		return "", "", AuthResponse{}, autherrors.ErrAccountNotActive
	}

	organizationID := ""
	if u.OrganizationID != nil {
		organizationID = u.OrganizationID.String()
	}

	newAccessToken, err := s.generateToken(u.ID.String(), organizationID, u.UserType, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	newRefreshToken, err := s.generateToken(u.ID.String(), organizationID, u.UserType, s.cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, s.mapToResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := s.mapToResponse(u)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	// 1. Tentukan tipe dan jalankan workflow registrasinya
	t := s.types.Default()
	if req.Type != "" {
		var ok bool
		t, ok = s.types.Get(req.Type)
		if !ok {
			return AuthResponse{}, autherrors.ErrInvalidUserID
		}
	}

	reg, err := t.HandleRegistration(usertype.Registration{
		Name:           req.Name,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Password:       req.Password,
		OrganizationID: req.OrganizationID,
		Position:       req.Position,
	})
	if err != nil {
		return AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("register begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByEmail(ctx, reg.Email); err == nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	u := &user.User{
		ID:       uuid.New(),
		Name:     reg.Name,
		Email:    reg.Email,
		Password: string(hashed),
		UserType: t.Name(),
		Status:   reg.Status,
	}

	if err := qtx.Create(ctx, u); err != nil {
		s.logger.Error("register persist failed", zap.Error(err))
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	if err := qtx.AddPasswordHistory(ctx, &user.PasswordHistory{
		ID:       uuid.New(),
		UserID:   u.ID,
		Password: u.Password,
	}); err != nil {
		return AuthResponse{}, err
	}

	event := events.UserRegisteredEvent{
		EventType:  "user_registered",
		RequestID:  rid,
		UserID:     u.ID.String(),
		UserType:   u.UserType,
		Status:     u.Status,
		OccurredAt: time.Now().UTC(),
	}
	if s.outbox != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			return AuthResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "user",
			AggregateID:   u.ID.String(),
			EventType:     event.EventType,
			Topic:         events.UserRegisteredTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("register outbox persist failed", zap.Error(err))
			return AuthResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("register commit failed", zap.String("request_id", rid), zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("register success",
		zap.String("request_id", rid),
		zap.String("user_id", u.ID.String()),
		zap.String("user_type", u.UserType),
		zap.String("status", u.Status),
	)

	return s.mapToResponse(u), nil
}

func (s *service) recordAttempt(ctx context.Context, userID *uuid.UUID, email string, meta LoginMeta, successful bool) {
	attempt := &user.LoginAttempt{
		ID:         uuid.New(),
		UserID:     userID,
		Email:      email,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Successful: successful,
	}
	if err := s.repo.RecordLoginAttempt(ctx, attempt); err != nil {
		s.logger.Error("record login attempt failed", zap.String("email", email), zap.Error(err))
	}
}

func (s *service) mapToResponse(u *user.User) AuthResponse {
	resp := AuthResponse{
		ID:     u.ID.String(),
		Email:  u.Email,
		Name:   u.Name,
		Type:   u.UserType,
		Status: u.Status,
	}
	if u.OrganizationID != nil {
		resp.OrganizationID = u.OrganizationID.String()
		position := ""
		if u.OrganizationPosition != nil {
			position = *u.OrganizationPosition
		}
		resp.Roles = membership.ResolveRoles(position, u.IsOrganizationAdmin, u.IsOrganizationOwner)
	}
	return resp
}

// reusable token generator
func (s *service) generateToken(userID, organizationID, userType string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":         userID,
		"organization_id": organizationID,
		"user_type":       userType,
		"exp":             time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
