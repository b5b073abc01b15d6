package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"go-userhub/internal/events"
	"go-userhub/internal/notification"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeMembershipLifecycle mengubah event lifecycle keanggotaan menjadi
// notifikasi in-app untuk user terkait. Event yang tidak dikenal di-commit
// dan dilewati.
func ConsumeMembershipLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.membership_lifecycle")
	log.Info("membership lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("membership lifecycle consumer stopped")
				return
			}
			log.Error("fetch membership lifecycle message failed", zap.Error(err))
			continue
		}

		eventType := headerValue(msg, "event_type")
		if err := dispatchMembershipEvent(ctx, notificationService, eventType, msg.Value); err != nil {
			log.Error("handle membership lifecycle event failed",
				zap.String("event_type", eventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit membership lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("membership lifecycle event handled", zap.String("event_type", eventType))
	}
}

func dispatchMembershipEvent(
	ctx context.Context,
	svc notification.Service,
	eventType string,
	payload []byte,
) error {
	switch eventType {
	case "member_joined":
		var event events.MemberJoinedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		message := "You have joined the organization"
		if event.Position != "" {
			message = fmt.Sprintf("You have joined the organization as %s", event.Position)
		}
		return svc.Notify(ctx, event.UserID, notification.KindMemberJoined, "Welcome aboard", message)

	case "member_left":
		var event events.MemberLeftEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return svc.Notify(ctx, event.UserID, notification.KindMemberLeft,
			"Membership ended", "Your organization membership has ended")

	case "member_transferred":
		var event events.MemberTransferredEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return svc.Notify(ctx, event.UserID, notification.KindTransferred,
			"Reporting line changed", "You now report to a new manager")

	case "member_role_changed":
		var event events.MemberRoleChangedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		message := fmt.Sprintf("Your position changed to %s", event.NewPosition)
		if event.NewPosition == "" {
			message = "Your position has been updated"
		}
		return svc.Notify(ctx, event.UserID, notification.KindRoleChanged, "Position updated", message)

	default:
		// Forward-compat: versi baru boleh menambah tipe event.
		return nil
	}
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if strings.EqualFold(h.Key, key) {
			return string(h.Value)
		}
	}
	return ""
}
