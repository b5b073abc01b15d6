package usertype

import (
	"go-userhub/internal/membership"
	"go-userhub/internal/user"
)

// OrganizationType: anggota organisasi. Role dan permission diturunkan dari
// posisi organisasi saat aktivasi.
type OrganizationType struct {
	baseType
}

func NewOrganizationType() *OrganizationType {
	return &OrganizationType{baseType{
		name:         user.TypeOrganization,
		displayName:  "Organization Member",
		roles:        []string{"organization-member"},
		permissions:  membership.BasePermissions(),
		workflow:     "organization_user_registration",
		inTenants:    true,
		initialState: user.StatusActive,
	}}
}

func (t *OrganizationType) HandleRegistration(reg Registration) (Registration, error) {
	reg, err := t.baseType.HandleRegistration(reg)
	if err != nil {
		return reg, err
	}
	// Organisasi yang mensyaratkan approval membuat status awal pending;
	// keputusan itu milik pemanggil yang tahu konfigurasi organisasinya.
	if reg.RequireApproval {
		reg.Status = user.StatusPending
	}
	return reg, nil
}

func (t *OrganizationType) HandleActivation(u *user.User) error {
	if u.OrganizationID == nil {
		return nil
	}

	position := ""
	if u.OrganizationPosition != nil {
		position = *u.OrganizationPosition
	}
	u.OrganizationPermissions = membership.ResolvePermissions(position)
	return nil
}
