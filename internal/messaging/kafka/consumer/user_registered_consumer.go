package consumer

import (
	"context"
	"encoding/json"
	"go-userhub/internal/events"
	"go-userhub/internal/notification"
	"go-userhub/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeUserRegistered mengirim welcome notification untuk akun baru.
// Akun yang masih pending mendapat pesan berbeda supaya user tahu harus
// menunggu approval.
func ConsumeUserRegistered(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.user_registered")
	log.Info("user registered consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("user registered consumer stopped")
				return
			}
			log.Error("fetch user registered message failed", zap.Error(err))
			continue
		}

		var event events.UserRegisteredEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode user_registered event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		message := "Your account is ready to use"
		if event.Status == user.StatusPending {
			message = "Your account is awaiting activation"
		}

		if err := notificationService.Notify(ctx, event.UserID, notification.KindWelcome, "Welcome", message); err != nil {
			log.Error("send welcome notification failed",
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit user registered message failed", zap.Error(err))
			continue
		}

		log.Info("welcome notification sent",
			zap.String("user_id", event.UserID),
			zap.String("user_type", event.UserType),
		)
	}
}
