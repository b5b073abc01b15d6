package audit

import (
	"context"
	"encoding/json"

	"go-userhub/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder mencatat jejak aktivitas untuk setiap operasi yang mengubah data.
// Kegagalan pencatatan tidak boleh menggagalkan operasi utamanya.
type Recorder interface {
	Record(ctx context.Context, actorID, subjectID, action string, before, after any)
}

type recorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRecorder(db *gorm.DB, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &recorder{db: db, logger: l}
}

func (r *recorder) Record(ctx context.Context, actorID, subjectID, action string, before, after any) {
	entry := ActivityLog{
		ID:        uuid.New(),
		Action:    action,
		RequestID: contextutil.GetRequestID(ctx),
	}

	if id, err := uuid.Parse(actorID); err == nil {
		entry.ActorID = &id
	}
	if id, err := uuid.Parse(subjectID); err == nil {
		entry.SubjectID = &id
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			entry.Before = b
		}
	}
	if after != nil {
		if b, err := json.Marshal(after); err == nil {
			entry.After = b
		}
	}

	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.logger.Error("failed to persist activity log",
			zap.String("action", action),
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		return
	}

	r.logger.Info("activity recorded",
		zap.String("action", action),
		zap.String("actor_id", actorID),
		zap.String("subject_id", subjectID),
		zap.String("request_id", entry.RequestID),
	)
}

// NopRecorder dipakai di test dan worker yang tidak butuh audit trail.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, string, string, string, any, any) {}
