package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Notify(ctx context.Context, userID, kind, title, message string) error
	GetAllByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Notify(ctx context.Context, userID, kind, title, message string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}

	n := &Notification{
		ID:      uuid.New(),
		UserID:  uid,
		Kind:    kind,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("persist notification failed",
			zap.String("user_id", userID),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("notification queued",
		zap.String("user_id", userID),
		zap.String("kind", kind),
	)
	return nil
}

func (s *service) GetAllByUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	return s.repo.FindAllByUser(ctx, userID, limit)
}

func (s *service) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, userID, id)
}
