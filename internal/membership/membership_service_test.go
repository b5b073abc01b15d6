package membership_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-userhub/internal/membership"
	membershiperrors "go-userhub/internal/membership/errors"
	"go-userhub/internal/messaging/kafka"
	"go-userhub/internal/user"
	mock_user "go-userhub/internal/user/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeOutbox menangkap event yang di-queue dalam transaksi.
type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error   { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, _ string) error { return nil }

// fakeDirectory menjawab kapasitas dan timezone organisasi.
type fakeDirectory struct {
	full     bool
	timezone string
}

func (f *fakeDirectory) HasReachedUserLimit(ctx context.Context, organizationID string) (bool, error) {
	return f.full, nil
}
func (f *fakeDirectory) DefaultTimezone(ctx context.Context, organizationID string) (string, error) {
	return f.timezone, nil
}

func TestMembershipService_Join(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rdb, rmock := redismock.NewClientMock()

		mockRepo := mock_user.NewMockRepository(ctrl)
		mockRepo.EXPECT().WithTx(gomock.Any()).Return(mockRepo).AnyTimes()

		joining := &user.User{ID: uuid.New(), Name: "Jane", Status: user.StatusActive}
		manager := &user.User{ID: uuid.New(), Name: "Boss", OrganizationID: &orgID}

		mockRepo.EXPECT().FindByID(gomock.Any(), joining.ID.String()).Return(joining, nil)
		mockRepo.EXPECT().FindByID(gomock.Any(), manager.ID.String()).Return(manager, nil)

		var saved *user.User
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				saved = u
				return nil
			})

		dbmock.ExpectBegin()
		dbmock.ExpectCommit()
		rmock.ExpectDel(membership.GetHierarchyTreeKey(orgID.String())).SetVal(1)

		outbox := &fakeOutbox{}
		engine := membership.NewEngine(mockRepo, 0)
		svc := membership.NewService(db, mockRepo, engine, &fakeDirectory{timezone: "Asia/Jakarta"}, outbox, nil, rdb)

		resp, err := svc.Join(ctx, orgID.String(), membership.JoinRequest{
			UserID:          joining.ID.String(),
			Position:        "Manager",
			ReportsToUserID: manager.ID.String(),
			EffectiveDate:   "2026-09-01",
		})
		require.NoError(t, err)

		assert.Equal(t, orgID.String(), resp.OrganizationID)
		assert.Equal(t, membership.RoleManager, resp.Role)

		require.NotNil(t, saved)
		assert.Equal(t, manager.ID, *saved.ReportsToUserID)
		assert.Equal(t, manager.ID, *saved.PrimaryManagerID)
		assert.Contains(t, saved.OrganizationPermissions, "organization.team.manage")
		assert.Equal(t, "office", saved.WorkLocation)
		assert.Equal(t, "2026-09-01", saved.OrganizationSettings["position_effective_date"])

		require.NotNil(t, saved.WorkSchedule)
		assert.Equal(t, "Asia/Jakarta", saved.WorkSchedule.Timezone)
		assert.Equal(t, "09:00", saved.WorkSchedule.WorkingHours.Start)

		require.Len(t, outbox.events, 1)
		assert.Equal(t, "member_joined", outbox.events[0].EventType)
		assert.Equal(t, joining.ID.String(), outbox.events[0].AggregateID)

		assert.NoError(t, dbmock.ExpectationsWereMet())
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("organization at capacity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mockRepo := mock_user.NewMockRepository(ctrl)
		engine := membership.NewEngine(mockRepo, 0)
		svc := membership.NewService(db, mockRepo, engine, &fakeDirectory{full: true}, &fakeOutbox{}, nil, nil)

		_, err = svc.Join(ctx, orgID.String(), membership.JoinRequest{UserID: uuid.NewString()})
		assert.ErrorIs(t, err, membershiperrors.ErrOrganizationLimitReached)
	})

	t.Run("already a member", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		existing := &user.User{ID: uuid.New(), OrganizationID: &orgID}

		mockRepo := mock_user.NewMockRepository(ctrl)
		mockRepo.EXPECT().WithTx(gomock.Any()).Return(mockRepo)
		mockRepo.EXPECT().FindByID(gomock.Any(), existing.ID.String()).Return(existing, nil)

		dbmock.ExpectBegin()
		dbmock.ExpectRollback()

		engine := membership.NewEngine(mockRepo, 0)
		svc := membership.NewService(db, mockRepo, engine, &fakeDirectory{}, &fakeOutbox{}, nil, nil)

		_, err = svc.Join(ctx, orgID.String(), membership.JoinRequest{UserID: existing.ID.String()})
		assert.ErrorIs(t, err, membershiperrors.ErrAlreadyMember)
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})
}

func TestMembershipService_UpdatePosition(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, rmock := redismock.NewClientMock()

	oldPosition := "Intern"
	member := &user.User{
		ID:                      uuid.New(),
		Name:                    "Jane",
		OrganizationID:          &orgID,
		OrganizationPosition:    &oldPosition,
		OrganizationPermissions: membership.ResolvePermissions(oldPosition),
	}

	mockRepo := mock_user.NewMockRepository(ctrl)
	mockRepo.EXPECT().WithTx(gomock.Any()).Return(mockRepo).AnyTimes()
	mockRepo.EXPECT().
		FindByIDInOrganization(gomock.Any(), orgID.String(), member.ID.String()).
		Return(member, nil)

	var saved *user.User
	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *user.User) error {
			saved = u
			return nil
		})

	dbmock.ExpectBegin()
	dbmock.ExpectCommit()
	rmock.ExpectDel(membership.GetHierarchyTreeKey(orgID.String())).SetVal(1)

	outbox := &fakeOutbox{}
	engine := membership.NewEngine(mockRepo, 0)
	svc := membership.NewService(db, mockRepo, engine, &fakeDirectory{}, outbox, nil, rdb)

	resp, err := svc.UpdatePosition(ctx, orgID.String(), member.ID.String(), membership.UpdatePositionRequest{
		Position: "Manager",
	})
	require.NoError(t, err)

	assert.Equal(t, "Manager", resp.Position)
	assert.Equal(t, membership.RoleManager, resp.Role)

	// Permission diturunkan ulang dari posisi baru.
	require.NotNil(t, saved)
	assert.Contains(t, saved.OrganizationPermissions, "organization.team.manage")
	assert.NotContains(t, saved.OrganizationPermissions, "organization.manage")

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "member_role_changed", outbox.events[0].EventType)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(outbox.events[0].Payload, &payload))
	assert.Equal(t, "Intern", payload["old_position"])
	assert.Equal(t, "Manager", payload["new_position"])

	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestMembershipService_Leave(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("owner cannot leave", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		owner := &user.User{ID: uuid.New(), OrganizationID: &orgID, IsOrganizationOwner: true}

		mockRepo := mock_user.NewMockRepository(ctrl)
		mockRepo.EXPECT().WithTx(gomock.Any()).Return(mockRepo)
		mockRepo.EXPECT().
			FindByIDInOrganization(gomock.Any(), orgID.String(), owner.ID.String()).
			Return(owner, nil)

		dbmock.ExpectBegin()
		dbmock.ExpectRollback()

		engine := membership.NewEngine(mockRepo, 0)
		svc := membership.NewService(db, mockRepo, engine, &fakeDirectory{}, &fakeOutbox{}, nil, nil)

		err = svc.Leave(ctx, orgID.String(), owner.ID.String())
		assert.ErrorIs(t, err, membershiperrors.ErrCannotRemoveOwner)
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})

	t.Run("success clears membership and stamps left_at", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rdb, rmock := redismock.NewClientMock()

		position := "Supervisor"
		leaving := &user.User{
			ID:                   uuid.New(),
			OrganizationID:       &orgID,
			OrganizationPosition: &position,
		}

		mockRepo := mock_user.NewMockRepository(ctrl)
		mockRepo.EXPECT().WithTx(gomock.Any()).Return(mockRepo).AnyTimes()
		mockRepo.EXPECT().
			FindByIDInOrganization(gomock.Any(), orgID.String(), leaving.ID.String()).
			Return(leaving, nil)

		// Tidak ada bawahan yang perlu dialihkan.
		mockRepo.EXPECT().FindDirectReports(gomock.Any(), leaving.ID.String()).Return(nil, nil)
		mockRepo.EXPECT().FindByPrimaryManager(gomock.Any(), leaving.ID.String()).Return(nil, nil)
		mockRepo.EXPECT().FindBySecondaryManager(gomock.Any(), leaving.ID.String()).Return(nil, nil)

		var cleared map[string]any
		mockRepo.EXPECT().
			UpdateFields(gomock.Any(), leaving.ID.String(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, fields map[string]any) error {
				cleared = fields
				return nil
			})

		dbmock.ExpectBegin()
		dbmock.ExpectCommit()
		rmock.ExpectDel(membership.GetHierarchyTreeKey(orgID.String())).SetVal(1)

		outbox := &fakeOutbox{}
		engine := membership.NewEngine(mockRepo, 0)
		svc := membership.NewService(db, mockRepo, engine, &fakeDirectory{}, outbox, nil, rdb)

		require.NoError(t, svc.Leave(ctx, orgID.String(), leaving.ID.String()))

		require.NotNil(t, cleared)
		assert.Nil(t, cleared["organization_id"])
		assert.Nil(t, cleared["organization_position"])
		assert.Nil(t, cleared["organization_permissions"])
		assert.Equal(t, false, cleared["is_organization_admin"])
		assert.IsType(t, time.Time{}, cleared["organization_left_at"])

		require.Len(t, outbox.events, 1)
		assert.Equal(t, "member_left", outbox.events[0].EventType)

		assert.NoError(t, dbmock.ExpectationsWereMet())
		assert.NoError(t, rmock.ExpectationsWereMet())
	})
}

func TestMembershipService_HierarchyTree(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("served from cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		cached := []membership.TreeNode{{ID: uuid.NewString(), Name: "Root"}}
		cachedJSON, _ := json.Marshal(cached)

		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectGet(membership.GetHierarchyTreeKey(orgID.String())).SetVal(string(cachedJSON))

		mockRepo := mock_user.NewMockRepository(ctrl)
		engine := membership.NewEngine(mockRepo, 0)
		svc := membership.NewService(db, mockRepo, engine, &fakeDirectory{}, &fakeOutbox{}, nil, rdb)

		tree, err := svc.HierarchyTree(ctx, orgID.String())
		require.NoError(t, err)
		assert.Equal(t, cached, tree)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("built from members on cache miss", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		ceoPos := "CEO"
		root := user.User{ID: uuid.New(), Name: "Root", OrganizationID: &orgID, OrganizationPosition: &ceoPos}
		child := user.User{ID: uuid.New(), Name: "Child", OrganizationID: &orgID, ReportsToUserID: &root.ID}

		mockRepo := mock_user.NewMockRepository(ctrl)
		mockRepo.EXPECT().
			FindAllByOrganization(gomock.Any(), orgID.String(), user.MemberFilter{}).
			Return([]user.User{root, child}, nil)

		// Tanpa redis: jalur singleflight langsung membangun pohon.
		engine := membership.NewEngine(mockRepo, 0)
		svc := membership.NewService(db, mockRepo, engine, &fakeDirectory{}, &fakeOutbox{}, nil, nil)

		tree, err := svc.HierarchyTree(ctx, orgID.String())
		require.NoError(t, err)

		require.Len(t, tree, 1)
		assert.Equal(t, root.ID.String(), tree[0].ID)
		assert.Equal(t, membership.RoleExecutive, tree[0].Role)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, child.ID.String(), tree[0].Children[0].ID)
	})
}
