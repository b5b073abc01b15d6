package usertype_test

import (
	"testing"

	"go-userhub/internal/user"
	"go-userhub/internal/usertype"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	registry := usertype.NewRegistry(usertype.DefaultConfig())

	t.Run("all builtin types registered", func(t *testing.T) {
		for _, name := range []string{
			user.TypeUser, user.TypeClient, user.TypeAdmin,
			user.TypeSystem, user.TypeOrganization,
		} {
			assert.True(t, registry.Known(name), name)
		}
		assert.False(t, registry.Known("martian"))
	})

	t.Run("default type is regular user", func(t *testing.T) {
		assert.Equal(t, user.TypeUser, registry.Default().Name())
	})

	t.Run("initial status per type", func(t *testing.T) {
		assert.Equal(t, user.StatusPending, registry.InitialStatus(user.TypeUser))
		assert.Equal(t, user.StatusPending, registry.InitialStatus(user.TypeClient))
		assert.Equal(t, user.StatusActive, registry.InitialStatus(user.TypeSystem))
		assert.Equal(t, user.StatusActive, registry.InitialStatus(user.TypeOrganization))
	})
}

func TestRegistryEnabledSubset(t *testing.T) {
	registry := usertype.NewRegistry(usertype.Config{
		DefaultType:  user.TypeClient,
		EnabledTypes: []string{user.TypeClient, user.TypeSystem},
	})

	assert.True(t, registry.Known(user.TypeClient))
	assert.True(t, registry.Known(user.TypeSystem))
	assert.False(t, registry.Known(user.TypeUser))
	assert.Equal(t, user.TypeClient, registry.Default().Name())
}

func TestRegistryFallsBackToRegularDefault(t *testing.T) {
	registry := usertype.NewRegistry(usertype.Config{
		DefaultType:  user.TypeAdmin,
		EnabledTypes: []string{user.TypeUser, user.TypeClient},
	})
	// Default di luar daftar enabled jatuh ke tipe regular.
	assert.Equal(t, user.TypeUser, registry.Default().Name())
}

func TestClientRegistrationRequiresApproval(t *testing.T) {
	registry := usertype.NewRegistry(usertype.DefaultConfig())

	clientType, ok := registry.Get(user.TypeClient)
	require.True(t, ok)

	reg, err := clientType.HandleRegistration(usertype.Registration{
		Name: "Client", Email: "client@mail.com",
	})
	require.NoError(t, err)
	assert.True(t, reg.RequireApproval)
	assert.Equal(t, user.StatusPending, reg.Status)
}

func TestOrganizationType(t *testing.T) {
	registry := usertype.NewRegistry(usertype.DefaultConfig())

	orgType, ok := registry.Get(user.TypeOrganization)
	require.True(t, ok)

	t.Run("active unless organization requires approval", func(t *testing.T) {
		reg, err := orgType.HandleRegistration(usertype.Registration{Name: "Member"})
		require.NoError(t, err)
		assert.Equal(t, user.StatusActive, reg.Status)

		reg, err = orgType.HandleRegistration(usertype.Registration{
			Name:            "Member",
			RequireApproval: true,
		})
		require.NoError(t, err)
		assert.Equal(t, user.StatusPending, reg.Status)
	})

	t.Run("activation derives permissions from position", func(t *testing.T) {
		orgID := uuid.New()
		position := "Manager"
		u := &user.User{
			OrganizationID:       &orgID,
			OrganizationPosition: &position,
		}

		require.NoError(t, orgType.HandleActivation(u))
		assert.Contains(t, u.OrganizationPermissions, "organization.team.manage")
	})
}
