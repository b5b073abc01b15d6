package membership_test

import (
	"context"
	"testing"

	"go-userhub/internal/membership"
	membershiperrors "go-userhub/internal/membership/errors"
	"go-userhub/internal/user"
	mock_user "go-userhub/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// graphStore membangun mock repository yang menjawab FindByID,
// FindDirectReports dan UpdateFields dari isi map, supaya test hierarchy
// bisa mendeskripsikan graph-nya secara deklaratif.
func graphStore(t *testing.T, users map[string]*user.User) (*mock_user.MockRepository, map[string]map[string]any) {
	ctrl := gomock.NewController(t)
	store := mock_user.NewMockRepository(ctrl)
	updates := map[string]map[string]any{}

	store.EXPECT().
		FindByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (*user.User, error) {
			u, ok := users[id]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			return u, nil
		}).
		AnyTimes()

	store.EXPECT().
		FindDirectReports(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, managerID string) ([]user.User, error) {
			var reports []user.User
			for _, u := range users {
				if u.ReportsToUserID != nil && u.ReportsToUserID.String() == managerID {
					reports = append(reports, *u)
				}
			}
			return reports, nil
		}).
		AnyTimes()

	store.EXPECT().
		FindByPrimaryManager(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, managerID string) ([]user.User, error) {
			var managed []user.User
			for _, u := range users {
				if u.PrimaryManagerID != nil && u.PrimaryManagerID.String() == managerID {
					managed = append(managed, *u)
				}
			}
			return managed, nil
		}).
		AnyTimes()

	store.EXPECT().
		FindBySecondaryManager(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, managerID string) ([]user.User, error) {
			var managed []user.User
			for _, u := range users {
				if u.SecondaryManagerID != nil && u.SecondaryManagerID.String() == managerID {
					managed = append(managed, *u)
				}
			}
			return managed, nil
		}).
		AnyTimes()

	store.EXPECT().
		UpdateFields(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, fields map[string]any) error {
			merged := updates[id]
			if merged == nil {
				merged = map[string]any{}
			}
			for k, v := range fields {
				merged[k] = v
			}
			updates[id] = merged
			return nil
		}).
		AnyTimes()

	return store, updates
}

func member(orgID uuid.UUID, name string, reportsTo *uuid.UUID) *user.User {
	u := &user.User{
		ID:             uuid.New(),
		Name:           name,
		OrganizationID: &orgID,
	}
	if reportsTo != nil {
		u.ReportsToUserID = reportsTo
		u.PrimaryManagerID = reportsTo
	}
	return u
}

func TestValidateManagerAssignment(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	ceo := member(orgID, "CEO", nil)
	dev := member(orgID, "Dev", nil)

	otherOrg := uuid.New()
	outsider := member(otherOrg, "Outsider", nil)

	users := map[string]*user.User{
		ceo.ID.String():      ceo,
		dev.ID.String():      dev,
		outsider.ID.String(): outsider,
	}
	store, _ := graphStore(t, users)
	engine := membership.NewEngine(store, 0)

	t.Run("valid assignment", func(t *testing.T) {
		err := engine.ValidateManagerAssignment(ctx, dev, ceo.ID.String(), orgID.String())
		assert.NoError(t, err)
	})

	t.Run("self report rejected", func(t *testing.T) {
		err := engine.ValidateManagerAssignment(ctx, dev, dev.ID.String(), orgID.String())
		assert.ErrorIs(t, err, membershiperrors.ErrSelfReport)
	})

	t.Run("unknown manager", func(t *testing.T) {
		err := engine.ValidateManagerAssignment(ctx, dev, uuid.NewString(), orgID.String())
		assert.ErrorIs(t, err, membershiperrors.ErrManagerNotFound)
	})

	t.Run("cross organization manager rejected", func(t *testing.T) {
		err := engine.ValidateManagerAssignment(ctx, dev, outsider.ID.String(), orgID.String())
		assert.ErrorIs(t, err, membershiperrors.ErrCrossOrganizationManager)
	})
}

func TestWouldCreateCycle(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	// a -> b -> c (c melapor ke b, b melapor ke a)
	a := member(orgID, "A", nil)
	b := member(orgID, "B", &a.ID)
	c := member(orgID, "C", &b.ID)

	users := map[string]*user.User{
		a.ID.String(): a,
		b.ID.String(): b,
		c.ID.String(): c,
	}
	store, _ := graphStore(t, users)
	engine := membership.NewEngine(store, 0)

	t.Run("direct cycle", func(t *testing.T) {
		// a melapor ke b, padahal b sudah melapor ke a
		cycle, err := engine.WouldCreateCycle(ctx, a.ID.String(), b.ID.String())
		require.NoError(t, err)
		assert.True(t, cycle)
	})

	t.Run("transitive cycle", func(t *testing.T) {
		// a melapor ke c: c -> b -> a menutup lingkaran
		cycle, err := engine.WouldCreateCycle(ctx, a.ID.String(), c.ID.String())
		require.NoError(t, err)
		assert.True(t, cycle)
	})

	t.Run("no cycle for sibling move", func(t *testing.T) {
		cycle, err := engine.WouldCreateCycle(ctx, c.ID.String(), a.ID.String())
		require.NoError(t, err)
		assert.False(t, cycle)
	})

	t.Run("walk survives pre-existing corrupt cycle", func(t *testing.T) {
		// x <-> y saling melapor; user lain tetap dapat jawaban.
		x := member(orgID, "X", nil)
		y := member(orgID, "Y", &x.ID)
		x.ReportsToUserID = &y.ID

		corrupt := map[string]*user.User{
			x.ID.String(): x,
			y.ID.String(): y,
		}
		corruptStore, _ := graphStore(t, corrupt)
		corruptEngine := membership.NewEngine(corruptStore, 0)

		cycle, err := corruptEngine.WouldCreateCycle(ctx, uuid.NewString(), x.ID.String())
		require.NoError(t, err)
		assert.False(t, cycle)
	})
}

func TestHierarchyPathAndLevel(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	root := member(orgID, "Root", nil)
	mid := member(orgID, "Mid", &root.ID)
	leaf := member(orgID, "Leaf", &mid.ID)

	users := map[string]*user.User{
		root.ID.String(): root,
		mid.ID.String():  mid,
		leaf.ID.String(): leaf,
	}
	store, _ := graphStore(t, users)
	engine := membership.NewEngine(store, 0)

	t.Run("path runs from root to user", func(t *testing.T) {
		path, err := engine.HierarchyPath(ctx, leaf.ID.String())
		require.NoError(t, err)
		require.Len(t, path, 3)
		assert.Equal(t, root.ID.String(), path[0].ID)
		assert.Equal(t, mid.ID.String(), path[1].ID)
		assert.Equal(t, leaf.ID.String(), path[2].ID)
	})

	t.Run("root has level zero", func(t *testing.T) {
		level, err := engine.HierarchyLevel(ctx, root.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 0, level)
	})

	t.Run("leaf level equals chain length", func(t *testing.T) {
		level, err := engine.HierarchyLevel(ctx, leaf.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 2, level)
	})
}

func TestAllSubordinates(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	boss := member(orgID, "Boss", nil)
	lead := member(orgID, "Lead", &boss.ID)
	devA := member(orgID, "DevA", &lead.ID)
	devB := member(orgID, "DevB", &lead.ID)
	other := member(orgID, "Other", nil)

	users := map[string]*user.User{
		boss.ID.String():  boss,
		lead.ID.String():  lead,
		devA.ID.String():  devA,
		devB.ID.String():  devB,
		other.ID.String(): other,
	}
	store, _ := graphStore(t, users)
	engine := membership.NewEngine(store, 0)

	subs, err := engine.AllSubordinates(ctx, boss.ID.String())
	require.NoError(t, err)

	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.ID.String())
	}
	assert.ElementsMatch(t, []string{lead.ID.String(), devA.ID.String(), devB.ID.String()}, ids)
}

func TestReassignOnDeparture(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	grandBoss := member(orgID, "GrandBoss", nil)
	departing := member(orgID, "Departing", &grandBoss.ID)
	report := member(orgID, "Report", &departing.ID)

	secondary := member(orgID, "SecondaryManaged", nil)
	secondary.SecondaryManagerID = &departing.ID

	users := map[string]*user.User{
		grandBoss.ID.String(): grandBoss,
		departing.ID.String(): departing,
		report.ID.String():    report,
		secondary.ID.String(): secondary,
	}
	store, updates := graphStore(t, users)
	engine := membership.NewEngine(store, 0)

	require.NoError(t, engine.ReassignOnDeparture(ctx, departing))

	t.Run("direct reports promoted one level up", func(t *testing.T) {
		fields := updates[report.ID.String()]
		require.NotNil(t, fields)
		assert.Equal(t, grandBoss.ID.String(), fields["reports_to_user_id"])
		assert.Equal(t, grandBoss.ID.String(), fields["primary_manager_id"])
	})

	t.Run("secondary relationships cleared, not inherited", func(t *testing.T) {
		fields := updates[secondary.ID.String()]
		require.NotNil(t, fields)
		assert.Nil(t, fields["secondary_manager_id"])
	})
}

func TestReassignOnDepartureOfRoot(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	departing := member(orgID, "RootDeparting", nil)
	report := member(orgID, "Report", &departing.ID)

	users := map[string]*user.User{
		departing.ID.String(): departing,
		report.ID.String():    report,
	}
	store, updates := graphStore(t, users)
	engine := membership.NewEngine(store, 0)

	require.NoError(t, engine.ReassignOnDeparture(ctx, departing))

	// Root tanpa manager: bawahannya menjadi root baru.
	fields := updates[report.ID.String()]
	require.NotNil(t, fields)
	assert.Nil(t, fields["reports_to_user_id"])
	assert.Nil(t, fields["primary_manager_id"])
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	boss := member(orgID, "Boss", nil)
	newManager := member(orgID, "NewManager", &boss.ID)
	moving := member(orgID, "Moving", &boss.ID)
	report := member(orgID, "Report", &moving.ID)

	t.Run("moves user and optionally its reports", func(t *testing.T) {
		users := map[string]*user.User{
			boss.ID.String():       boss,
			newManager.ID.String(): newManager,
			moving.ID.String():     moving,
			report.ID.String():     report,
		}
		store, updates := graphStore(t, users)
		engine := membership.NewEngine(store, 0)

		require.NoError(t, engine.Transfer(ctx, moving, newManager.ID.String(), true))

		assert.Equal(t, newManager.ID.String(), updates[moving.ID.String()]["reports_to_user_id"])
		assert.Equal(t, newManager.ID.String(), updates[report.ID.String()]["reports_to_user_id"])
	})

	t.Run("transfer to own subordinate rejected", func(t *testing.T) {
		users := map[string]*user.User{
			boss.ID.String():   boss,
			moving.ID.String(): moving,
			report.ID.String(): report,
		}
		store, _ := graphStore(t, users)
		engine := membership.NewEngine(store, 0)

		err := engine.Transfer(ctx, moving, report.ID.String(), false)
		assert.ErrorIs(t, err, membershiperrors.ErrCircularReporting)
	})
}
