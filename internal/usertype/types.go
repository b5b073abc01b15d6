package usertype

import (
	"go-userhub/internal/user"
)

// RegularType: registrasi self-service, email verification, auto-activate.
type RegularType struct {
	baseType
}

func NewRegularType() *RegularType {
	return &RegularType{baseType{
		name:         user.TypeUser,
		displayName:  "Regular User",
		roles:        []string{"user"},
		permissions:  []string{"profile.view", "profile.update"},
		workflow:     "user_registration",
		inTenants:    true,
		initialState: user.StatusPending,
	}}
}

// ClientType: butuh persetujuan admin sebelum aktif.
type ClientType struct {
	baseType
}

func NewClientType() *ClientType {
	return &ClientType{baseType{
		name:         user.TypeClient,
		displayName:  "Client User",
		roles:        []string{"client"},
		permissions:  []string{"profile.view", "profile.update", "client.portal.view"},
		workflow:     "client_registration",
		inTenants:    true,
		initialState: user.StatusPending,
	}}
}

func (t *ClientType) HandleRegistration(reg Registration) (Registration, error) {
	reg, err := t.baseType.HandleRegistration(reg)
	if err != nil {
		return reg, err
	}
	reg.RequireApproval = true
	return reg, nil
}

// AdminType: dibuat oleh admin lain, selalu lewat persetujuan.
type AdminType struct {
	baseType
}

func NewAdminType() *AdminType {
	return &AdminType{baseType{
		name:         user.TypeAdmin,
		displayName:  "Administrator",
		roles:        []string{"admin"},
		permissions:  []string{"admin.panel.view", "user.manage"},
		workflow:     "admin_registration",
		inTenants:    false,
		initialState: user.StatusPending,
	}}
}

func (t *AdminType) HandleRegistration(reg Registration) (Registration, error) {
	reg, err := t.baseType.HandleRegistration(reg)
	if err != nil {
		return reg, err
	}
	reg.RequireApproval = true
	return reg, nil
}

// SystemType: akun service-to-service, langsung aktif, tanpa tenant.
type SystemType struct {
	baseType
}

func NewSystemType() *SystemType {
	return &SystemType{baseType{
		name:         user.TypeSystem,
		displayName:  "System User",
		roles:        []string{"system"},
		permissions:  []string{"system.api.access"},
		workflow:     "system_registration",
		inTenants:    false,
		initialState: user.StatusActive,
	}}
}
