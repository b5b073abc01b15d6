package rbac

import (
	"testing"

	"go-userhub/internal/domain"
	"go-userhub/internal/rbac/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGrantRepo menjawab GetMemberGrants dari map organisasi -> baris.
type fakeGrantRepo struct {
	grants map[string][]MemberGrantRow
}

func (f *fakeGrantRepo) GetMemberGrants(organizationID string) ([]MemberGrantRow, error) {
	return f.grants[organizationID], nil
}

func newTestService(t *testing.T, grants map[string][]MemberGrantRow) Service {
	t.Helper()
	enforcer, err := infra.NewDefaultEnforcer()
	require.NoError(t, err)
	return NewService(&fakeGrantRepo{grants: grants}, enforcer)
}

func TestRBACService_PositionDerivedAccess(t *testing.T) {
	orgID := uuid.NewString()
	managerID := uuid.NewString()
	internID := uuid.NewString()

	svc := newTestService(t, map[string][]MemberGrantRow{
		orgID: {
			{UserID: managerID, Position: "Manager"},
			{UserID: internID, Position: "Intern"},
		},
	})

	t.Run("manager can update members", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{
			UserID: managerID, OrganizationID: orgID,
			Resource: "member", Action: "update",
		})
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("intern can read members but not update", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{
			UserID: internID, OrganizationID: orgID,
			Resource: "member", Action: "read",
		})
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = svc.Enforce(domain.EnforceRequest{
			UserID: internID, OrganizationID: orgID,
			Resource: "member", Action: "update",
		})
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("manager cannot delete organization", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{
			UserID: managerID, OrganizationID: orgID,
			Resource: "organization", Action: "delete",
		})
		require.NoError(t, err)
		assert.False(t, allowed)
	})
}

func TestRBACService_AdminOverride(t *testing.T) {
	orgID := uuid.NewString()
	adminID := uuid.NewString()

	// Posisi biasa, tapi flag admin memberi akses penuh.
	svc := newTestService(t, map[string][]MemberGrantRow{
		orgID: {
			{UserID: adminID, Position: "Software Engineer", IsAdmin: true},
		},
	})

	for _, pair := range [][2]string{
		{"organization", "delete"},
		{"member", "delete"},
		{"billing", "manage"},
	} {
		allowed, err := svc.Enforce(domain.EnforceRequest{
			UserID: adminID, OrganizationID: orgID,
			Resource: pair[0], Action: pair[1],
		})
		require.NoError(t, err)
		assert.True(t, allowed, "%s:%s", pair[0], pair[1])
	}
}

func TestRBACService_ExplicitGrant(t *testing.T) {
	orgID := uuid.NewString()
	userID := uuid.NewString()
	otherID := uuid.NewString()

	svc := newTestService(t, map[string][]MemberGrantRow{
		orgID: {
			{
				UserID:      userID,
				Position:    "Software Engineer",
				Permissions: []byte(`["organization.reports.view"]`),
			},
			{UserID: otherID, Position: "Software Engineer"},
		},
	})

	allowed, err := svc.Enforce(domain.EnforceRequest{
		UserID: userID, OrganizationID: orgID,
		Resource: "reports", Action: "read",
	})
	require.NoError(t, err)
	assert.True(t, allowed)

	// Grant eksplisit tidak bocor ke member lain dengan posisi sama.
	allowed, err = svc.Enforce(domain.EnforceRequest{
		UserID: otherID, OrganizationID: orgID,
		Resource: "reports", Action: "read",
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRBACService_OrganizationIsolation(t *testing.T) {
	orgA := uuid.NewString()
	orgB := uuid.NewString()
	managerID := uuid.NewString()

	svc := newTestService(t, map[string][]MemberGrantRow{
		orgA: {{UserID: managerID, Position: "Manager"}},
	})

	allowed, err := svc.Enforce(domain.EnforceRequest{
		UserID: managerID, OrganizationID: orgB,
		Resource: "member", Action: "update",
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestPoliciesForRole(t *testing.T) {
	t.Run("admin and owner get full access", func(t *testing.T) {
		assert.Equal(t, adminPolicies, policiesForRole("organization-admin"))
		assert.Equal(t, adminPolicies, policiesForRole("organization-owner"))
	})

	t.Run("pairs are deduplicated", func(t *testing.T) {
		pairs := policiesForRole("organization-executive")
		seen := map[[2]string]struct{}{}
		for _, pair := range pairs {
			_, dup := seen[pair]
			assert.False(t, dup, "duplicate pair %v", pair)
			seen[pair] = struct{}{}
		}
	})
}
