package usertype

import (
	"go-userhub/internal/user"
)

// Registration adalah data pendaftaran yang boleh dimodifikasi oleh tiap tipe
// sebelum user dibuat.
type Registration struct {
	Name           string
	Email          string
	Password       string
	Status         string
	OrganizationID string
	Position       string
	RequireApproval bool
}

// Type mendefinisikan perilaku per tipe user: aturan registrasi, status awal,
// role/permission default, dan efek samping aktivasi.
type Type interface {
	Name() string
	DisplayName() string
	DefaultRoles() []string
	DefaultPermissions() []string
	RegistrationWorkflow() string
	AllowedInTenants() bool

	// InitialStatus menentukan status akun yang baru terdaftar.
	InitialStatus() string

	// HandleRegistration boleh melengkapi/menolak data sebelum persist.
	HandleRegistration(reg Registration) (Registration, error)

	// HandleActivation dijalankan saat akun diaktifkan.
	HandleActivation(u *user.User) error
}

type baseType struct {
	name         string
	displayName  string
	roles        []string
	permissions  []string
	workflow     string
	inTenants    bool
	initialState string
}

func (b baseType) Name() string                 { return b.name }
func (b baseType) DisplayName() string          { return b.displayName }
func (b baseType) DefaultRoles() []string       { return b.roles }
func (b baseType) DefaultPermissions() []string { return b.permissions }
func (b baseType) RegistrationWorkflow() string { return b.workflow }
func (b baseType) AllowedInTenants() bool       { return b.inTenants }
func (b baseType) InitialStatus() string        { return b.initialState }

func (b baseType) HandleRegistration(reg Registration) (Registration, error) {
	reg.Status = b.initialState
	return reg, nil
}

func (b baseType) HandleActivation(_ *user.User) error {
	return nil
}
