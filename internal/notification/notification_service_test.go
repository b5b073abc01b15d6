package notification_test

import (
	"context"
	"testing"

	"go-userhub/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotificationRepo struct {
	items []notification.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeNotificationRepo) FindAllByUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	var result []notification.Notification
	for _, n := range f.items {
		if n.UserID.String() == userID {
			result = append(result, n)
		}
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	for _, n := range f.items {
		if n.ID.String() == id && n.UserID.String() == userID {
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func TestNotificationService_Notify(t *testing.T) {
	t.Run("persists notification for valid user id", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := notification.NewService(repo)
		userID := uuid.NewString()

		err := svc.Notify(context.Background(), userID, "member_joined", "Welcome", "You joined Acme Corp")
		require.NoError(t, err)

		require.Len(t, repo.items, 1)
		saved := repo.items[0]
		assert.Equal(t, userID, saved.UserID.String())
		assert.Equal(t, "member_joined", saved.Kind)
		assert.Equal(t, "Welcome", saved.Title)
		assert.NotEqual(t, uuid.Nil, saved.ID)
	})

	t.Run("rejects malformed user id", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := notification.NewService(repo)

		err := svc.Notify(context.Background(), "not-a-uuid", "member_joined", "Welcome", "hi")
		assert.Error(t, err)
		assert.Empty(t, repo.items)
	})
}

func TestNotificationService_GetAllByUser(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := notification.NewService(repo)
	userID := uuid.New()
	other := uuid.New()

	for i := 0; i < 3; i++ {
		repo.items = append(repo.items, notification.Notification{ID: uuid.New(), UserID: userID, Kind: "member_joined"})
	}
	repo.items = append(repo.items, notification.Notification{ID: uuid.New(), UserID: other, Kind: "member_left"})

	items, err := svc.GetAllByUser(context.Background(), userID.String(), 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, n := range items {
		assert.Equal(t, userID, n.UserID)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := notification.NewService(repo)
	userID := uuid.New()
	n := notification.Notification{ID: uuid.New(), UserID: userID, Kind: "member_joined"}
	repo.items = append(repo.items, n)

	t.Run("owner can mark read", func(t *testing.T) {
		err := svc.MarkRead(context.Background(), userID.String(), n.ID.String())
		assert.NoError(t, err)
	})

	t.Run("other user gets not found", func(t *testing.T) {
		err := svc.MarkRead(context.Background(), uuid.NewString(), n.ID.String())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
