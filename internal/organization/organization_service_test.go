package organization_test

import (
	"context"
	"testing"

	"go-userhub/internal/organization"
	organizationerrors "go-userhub/internal/organization/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeOrganizationRepo menyimpan organisasi dan lokasi in-memory.
type fakeOrganizationRepo struct {
	orgs         map[uuid.UUID]*organization.Organization
	activeCounts map[uuid.UUID]int64
	locations    map[uuid.UUID][]organization.OfficeLocation
	created      []*organization.Organization
}

func newFakeOrganizationRepo() *fakeOrganizationRepo {
	return &fakeOrganizationRepo{
		orgs:         map[uuid.UUID]*organization.Organization{},
		activeCounts: map[uuid.UUID]int64{},
		locations:    map[uuid.UUID][]organization.OfficeLocation{},
	}
}

func (f *fakeOrganizationRepo) Create(ctx context.Context, org *organization.Organization) error {
	f.orgs[org.ID] = org
	f.created = append(f.created, org)
	return nil
}

func (f *fakeOrganizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return &organization.Organization{}, gorm.ErrRecordNotFound
	}
	return org, nil
}

func (f *fakeOrganizationRepo) GetByEmail(ctx context.Context, email string) (*organization.Organization, error) {
	for _, org := range f.orgs {
		if org.Email == email {
			return org, nil
		}
	}
	return &organization.Organization{}, gorm.ErrRecordNotFound
}

func (f *fakeOrganizationRepo) Update(ctx context.Context, org *organization.Organization) error {
	f.orgs[org.ID] = org
	return nil
}

func (f *fakeOrganizationRepo) CountActiveMembers(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.activeCounts[id], nil
}

func (f *fakeOrganizationRepo) UpsertLocation(ctx context.Context, loc *organization.OfficeLocation) error {
	existing := f.locations[loc.OrganizationID]
	for i, l := range existing {
		if l.Name == loc.Name {
			existing[i] = *loc
			return nil
		}
	}
	f.locations[loc.OrganizationID] = append(existing, *loc)
	return nil
}

func (f *fakeOrganizationRepo) GetLocationsByOrganizationID(ctx context.Context, id uuid.UUID) ([]organization.OfficeLocation, error) {
	return f.locations[id], nil
}

func (f *fakeOrganizationRepo) DeleteLocation(ctx context.Context, id uuid.UUID, name string) error {
	existing := f.locations[id]
	for i, l := range existing {
		if l.Name == name {
			f.locations[id] = append(existing[:i], existing[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeOrganizationRepo) WithTx(tx *gorm.DB) organization.Repository {
	return f
}

func seedOrg(repo *fakeOrganizationRepo, mutate func(*organization.Organization)) *organization.Organization {
	org := &organization.Organization{
		ID:       uuid.New(),
		Name:     "Acme Corp",
		Email:    "ops@acme.test",
		Timezone: "Asia/Jakarta",
		IsActive: true,
	}
	if mutate != nil {
		mutate(org)
	}
	repo.orgs[org.ID] = org
	return org
}

func TestOrganizationService_Create(t *testing.T) {
	t.Run("normalizes email and defaults timezone", func(t *testing.T) {
		repo := newFakeOrganizationRepo()
		svc := organization.NewService(repo)

		resp, err := svc.Create(context.Background(), organization.CreateOrganizationRequest{
			Name:  "Acme Corp",
			Email: "  Ops@Acme.Test ",
		})

		require.NoError(t, err)
		assert.Equal(t, "ops@acme.test", resp.Email)
		assert.Equal(t, "UTC", resp.Timezone)
		assert.True(t, resp.IsActive)
		require.Len(t, repo.created, 1)
	})

	t.Run("rejects malformed owner id", func(t *testing.T) {
		repo := newFakeOrganizationRepo()
		svc := organization.NewService(repo)

		_, err := svc.Create(context.Background(), organization.CreateOrganizationRequest{
			Name:        "Acme Corp",
			Email:       "ops@acme.test",
			OwnerUserID: "not-a-uuid",
		})

		assert.ErrorIs(t, err, organizationerrors.ErrInvalidOrganizationID)
	})
}

func TestOrganizationService_GetByID(t *testing.T) {
	repo := newFakeOrganizationRepo()
	svc := organization.NewService(repo)
	org := seedOrg(repo, nil)
	repo.activeCounts[org.ID] = 7

	t.Run("returns member count", func(t *testing.T) {
		resp, err := svc.GetByID(context.Background(), org.ID.String())
		require.NoError(t, err)
		assert.Equal(t, org.Name, resp.Name)
		assert.Equal(t, int64(7), resp.MemberCount)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, organizationerrors.ErrOrganizationNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), "abc")
		assert.ErrorIs(t, err, organizationerrors.ErrInvalidOrganizationID)
	})
}

func TestOrganizationService_HasReachedUserLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("inactive organization rejects joins", func(t *testing.T) {
		repo := newFakeOrganizationRepo()
		svc := organization.NewService(repo)
		org := seedOrg(repo, func(o *organization.Organization) { o.IsActive = false })

		_, err := svc.HasReachedUserLimit(ctx, org.ID.String())
		assert.ErrorIs(t, err, organizationerrors.ErrOrganizationInactive)
	})

	t.Run("zero limit means unlimited", func(t *testing.T) {
		repo := newFakeOrganizationRepo()
		svc := organization.NewService(repo)
		org := seedOrg(repo, func(o *organization.Organization) { o.UserLimit = 0 })
		repo.activeCounts[org.ID] = 10_000

		reached, err := svc.HasReachedUserLimit(ctx, org.ID.String())
		require.NoError(t, err)
		assert.False(t, reached)
	})

	t.Run("at or above limit", func(t *testing.T) {
		repo := newFakeOrganizationRepo()
		svc := organization.NewService(repo)
		org := seedOrg(repo, func(o *organization.Organization) { o.UserLimit = 5 })
		repo.activeCounts[org.ID] = 5

		reached, err := svc.HasReachedUserLimit(ctx, org.ID.String())
		require.NoError(t, err)
		assert.True(t, reached)
	})

	t.Run("below limit", func(t *testing.T) {
		repo := newFakeOrganizationRepo()
		svc := organization.NewService(repo)
		org := seedOrg(repo, func(o *organization.Organization) { o.UserLimit = 5 })
		repo.activeCounts[org.ID] = 4

		reached, err := svc.HasReachedUserLimit(ctx, org.ID.String())
		require.NoError(t, err)
		assert.False(t, reached)
	})
}

func TestOrganizationService_DefaultTimezone(t *testing.T) {
	repo := newFakeOrganizationRepo()
	svc := organization.NewService(repo)

	org := seedOrg(repo, nil)
	blank := seedOrg(repo, func(o *organization.Organization) {
		o.Email = "hq@blank.test"
		o.Timezone = ""
	})

	tz, err := svc.DefaultTimezone(context.Background(), org.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", tz)

	tz, err = svc.DefaultTimezone(context.Background(), blank.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "UTC", tz)
}

func TestOrganizationService_Locations(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrganizationRepo()
	svc := organization.NewService(repo)
	org := seedOrg(repo, nil)

	t.Run("upsert requires a name", func(t *testing.T) {
		err := svc.UpsertLocation(ctx, org.ID.String(), organization.UpsertOfficeLocationRequest{
			Name: "   ",
		})
		assert.ErrorIs(t, err, organizationerrors.ErrMissingRequiredFields)
	})

	t.Run("upsert then list", func(t *testing.T) {
		err := svc.UpsertLocation(ctx, org.ID.String(), organization.UpsertOfficeLocationRequest{
			Name:     "HQ",
			Address:  "Jl. Sudirman 1",
			Timezone: "Asia/Jakarta",
		})
		require.NoError(t, err)

		locs, err := svc.ListLocations(ctx, org.ID.String())
		require.NoError(t, err)
		require.Len(t, locs, 1)
		assert.Equal(t, "HQ", locs[0].Name)
		assert.Equal(t, "Jl. Sudirman 1", locs[0].Address)
	})

	t.Run("delete unknown location", func(t *testing.T) {
		err := svc.DeleteLocation(ctx, org.ID.String(), "Branch")
		assert.ErrorIs(t, err, organizationerrors.ErrLocationNotFound)
	})

	t.Run("delete existing location", func(t *testing.T) {
		err := svc.DeleteLocation(ctx, org.ID.String(), "HQ")
		require.NoError(t, err)

		locs, err := svc.ListLocations(ctx, org.ID.String())
		require.NoError(t, err)
		assert.Empty(t, locs)
	})
}
