package membership_test

import (
	"testing"

	"go-userhub/internal/membership"

	"github.com/stretchr/testify/assert"
)

func TestResolveRole(t *testing.T) {
	cases := []struct {
		position string
		expected string
	}{
		{"CEO", membership.RoleExecutive},
		{"President", membership.RoleExecutive},
		{"Manager", membership.RoleManager},
		{"Director", membership.RoleManager},
		{"VP", membership.RoleManager},
		{"Supervisor", membership.RoleSupervisor},
		{"Team Lead", membership.RoleSupervisor},
		{"Intern", membership.RoleIntern},
		{"Software Engineer", membership.RoleMember},
		{"", membership.RoleMember},
	}

	for _, tc := range cases {
		t.Run(tc.position, func(t *testing.T) {
			assert.Equal(t, tc.expected, membership.ResolveRole(tc.position))
		})
	}
}

func TestResolveRoles(t *testing.T) {
	t.Run("position only", func(t *testing.T) {
		roles := membership.ResolveRoles("Manager", false, false)
		assert.Equal(t, []string{membership.RoleManager}, roles)
	})

	t.Run("admin flag is additive", func(t *testing.T) {
		roles := membership.ResolveRoles("Supervisor", true, false)
		assert.Equal(t, []string{membership.RoleSupervisor, membership.RoleAdmin}, roles)
	})

	t.Run("owner keeps position role", func(t *testing.T) {
		roles := membership.ResolveRoles("CEO", true, true)
		assert.Equal(t, []string{
			membership.RoleExecutive,
			membership.RoleAdmin,
			membership.RoleOwner,
		}, roles)
	})
}

func TestResolvePermissions(t *testing.T) {
	t.Run("every member gets the base set", func(t *testing.T) {
		perms := membership.ResolvePermissions("Software Engineer")
		for _, base := range membership.BasePermissions() {
			assert.Contains(t, perms, base)
		}
	})

	t.Run("executive tier", func(t *testing.T) {
		perms := membership.ResolvePermissions("CEO")
		assert.Contains(t, perms, "organization.manage")
		assert.Contains(t, perms, "organization.users.manage")
		assert.Contains(t, perms, "organization.billing.manage")
	})

	t.Run("manager tier", func(t *testing.T) {
		perms := membership.ResolvePermissions("Director")
		assert.Contains(t, perms, "organization.team.manage")
		assert.Contains(t, perms, "organization.reports.view")
		assert.NotContains(t, perms, "organization.manage")
	})

	t.Run("supervisor tier", func(t *testing.T) {
		perms := membership.ResolvePermissions("Team Lead")
		assert.Contains(t, perms, "organization.team.view")
		assert.NotContains(t, perms, "organization.team.manage")
	})

	t.Run("intern stays on base set", func(t *testing.T) {
		perms := membership.ResolvePermissions("Intern")
		assert.ElementsMatch(t, membership.BasePermissions(), perms)
	})
}
