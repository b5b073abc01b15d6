package usertype

import (
	"go-userhub/internal/user"
)

// Config menentukan tipe mana yang diaktifkan dan tipe default.
// Dibawa eksplisit saat konstruksi, bukan dari global state.
type Config struct {
	DefaultType  string
	EnabledTypes []string
}

func DefaultConfig() Config {
	return Config{
		DefaultType: user.TypeUser,
		EnabledTypes: []string{
			user.TypeUser,
			user.TypeClient,
			user.TypeAdmin,
			user.TypeSystem,
			user.TypeOrganization,
		},
	}
}

// Registry adalah lookup table tipe user, dipilih berdasarkan nama tipe.
type Registry struct {
	types       map[string]Type
	defaultType string
}

func NewRegistry(cfg Config) *Registry {
	all := map[string]Type{
		user.TypeUser:         NewRegularType(),
		user.TypeClient:       NewClientType(),
		user.TypeAdmin:        NewAdminType(),
		user.TypeSystem:       NewSystemType(),
		user.TypeOrganization: NewOrganizationType(),
	}

	enabled := make(map[string]Type, len(cfg.EnabledTypes))
	for _, name := range cfg.EnabledTypes {
		if t, ok := all[name]; ok {
			enabled[name] = t
		}
	}
	if len(enabled) == 0 {
		enabled = all
	}

	defaultType := cfg.DefaultType
	if _, ok := enabled[defaultType]; !ok {
		defaultType = user.TypeUser
	}

	return &Registry{types: enabled, defaultType: defaultType}
}

func (r *Registry) Get(name string) (Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

func (r *Registry) Default() Type {
	return r.types[r.defaultType]
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}

// --- user.TypeRules implementation ---

func (r *Registry) Known(userType string) bool {
	_, ok := r.types[userType]
	return ok
}

func (r *Registry) InitialStatus(userType string) string {
	if t, ok := r.types[userType]; ok {
		return t.InitialStatus()
	}
	return user.StatusPending
}

func (r *Registry) DefaultPermissions(userType string) []string {
	if t, ok := r.types[userType]; ok {
		return t.DefaultPermissions()
	}
	return nil
}
