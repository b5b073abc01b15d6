package profile_test

import (
	"context"
	"database/sql"
	"testing"

	"go-userhub/internal/profile"
	profileerrors "go-userhub/internal/profile/errors"
	"go-userhub/internal/user"
	usererrors "go-userhub/internal/user/errors"
	mock_user "go-userhub/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeProfileRepo struct {
	profiles map[string]*profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*profile.Profile{}}
}

func (f *fakeProfileRepo) WithTx(tx *sql.Tx) profile.Repository {
	return f
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, p *profile.Profile) error {
	cp := *p
	f.profiles[p.UserID.String()] = &cp
	return nil
}

func (f *fakeProfileRepo) FindByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, userID string) error {
	if _, ok := f.profiles[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.profiles, userID)
	return nil
}

type fakeCounter struct {
	next  int64
	calls int
}

func (f *fakeCounter) GetNextValue(ctx context.Context, organizationID string, counterType string) (int64, error) {
	f.calls++
	f.next++
	return f.next, nil
}

func TestProfileService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns employee number once for organization members", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		usersMock := mock_user.NewMockRepository(ctrl)
		repo := newFakeProfileRepo()
		cnt := &fakeCounter{}
		svc := profile.NewService(repo, usersMock, cnt)

		orgID := uuid.New()
		uid := uuid.New()
		usersMock.EXPECT().FindByID(gomock.Any(), uid.String()).
			Return(&user.User{ID: uid, OrganizationID: &orgID}, nil).
			Times(2)

		resp, err := svc.Upsert(ctx, uid.String(), profile.UpsertProfileRequest{
			FirstName: "Rina",
			LastName:  "Wijaya",
			JobTitle:  "Engineer",
			HireDate:  "2024-03-01",
		})
		require.NoError(t, err)
		assert.Equal(t, "EMP-000001", resp.EmployeeNumber)
		assert.Equal(t, "2024-03-01", resp.HireDate)

		// Update berikutnya tidak menarik nomor baru.
		resp, err = svc.Upsert(ctx, uid.String(), profile.UpsertProfileRequest{
			FirstName: "Rina",
			LastName:  "Wijaya",
			JobTitle:  "Senior Engineer",
		})
		require.NoError(t, err)
		assert.Equal(t, "EMP-000001", resp.EmployeeNumber)
		assert.Equal(t, "Senior Engineer", resp.JobTitle)
		assert.Equal(t, 1, cnt.calls)
	})

	t.Run("no employee number without organization", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		usersMock := mock_user.NewMockRepository(ctrl)
		repo := newFakeProfileRepo()
		cnt := &fakeCounter{}
		svc := profile.NewService(repo, usersMock, cnt)

		uid := uuid.New()
		usersMock.EXPECT().FindByID(gomock.Any(), uid.String()).
			Return(&user.User{ID: uid}, nil)

		resp, err := svc.Upsert(ctx, uid.String(), profile.UpsertProfileRequest{FirstName: "Solo"})
		require.NoError(t, err)
		assert.Empty(t, resp.EmployeeNumber)
		assert.Equal(t, 0, cnt.calls)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		usersMock := mock_user.NewMockRepository(ctrl)
		svc := profile.NewService(newFakeProfileRepo(), usersMock, &fakeCounter{})

		uid := uuid.NewString()
		usersMock.EXPECT().FindByID(gomock.Any(), uid).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Upsert(ctx, uid, profile.UpsertProfileRequest{FirstName: "Ghost"})
		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("malformed user id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		usersMock := mock_user.NewMockRepository(ctrl)
		svc := profile.NewService(newFakeProfileRepo(), usersMock, &fakeCounter{})

		_, err := svc.Upsert(ctx, "abc", profile.UpsertProfileRequest{})
		assert.ErrorIs(t, err, profileerrors.ErrInvalidUserID)
	})
}

func TestProfileService_GetByUserID(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	usersMock := mock_user.NewMockRepository(ctrl)
	repo := newFakeProfileRepo()
	svc := profile.NewService(repo, usersMock, &fakeCounter{})

	uid := uuid.New()
	repo.profiles[uid.String()] = &profile.Profile{UserID: uid, FirstName: "Rina"}

	t.Run("found", func(t *testing.T) {
		resp, err := svc.GetByUserID(ctx, uid.String())
		require.NoError(t, err)
		assert.Equal(t, "Rina", resp.FirstName)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.GetByUserID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, profileerrors.ErrProfileNotFound)
	})
}

func TestProfileService_Delete(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	usersMock := mock_user.NewMockRepository(ctrl)
	repo := newFakeProfileRepo()
	svc := profile.NewService(repo, usersMock, &fakeCounter{})

	uid := uuid.New()
	repo.profiles[uid.String()] = &profile.Profile{UserID: uid}

	require.NoError(t, svc.Delete(ctx, uid.String()))
	assert.ErrorIs(t, svc.Delete(ctx, uid.String()), profileerrors.ErrProfileNotFound)
}
