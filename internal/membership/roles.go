package membership

// Role tags diturunkan dari posisi organisasi. Admin dan owner bersifat
// aditif, bukan pengganti role posisi.
const (
	RoleExecutive  = "organization-executive"
	RoleManager    = "organization-manager"
	RoleSupervisor = "organization-supervisor"
	RoleIntern     = "organization-intern"
	RoleMember     = "organization-member"
	RoleAdmin      = "organization-admin"
	RoleOwner      = "organization-owner"
)

// AllRoles mengembalikan semua role organisasi yang dikenal, dipakai saat
// mencabut akses (revoke) agar tidak ada sisa.
func AllRoles() []string {
	return []string{
		RoleExecutive,
		RoleManager,
		RoleSupervisor,
		RoleIntern,
		RoleMember,
		RoleAdmin,
		RoleOwner,
	}
}

// ResolveRole memetakan posisi ke satu role tag. Fungsi total: posisi apapun
// (termasuk kosong) selalu menghasilkan role, default member.
func ResolveRole(position string) string {
	switch position {
	case "CEO", "President":
		return RoleExecutive
	case "Manager", "Director", "VP":
		return RoleManager
	case "Supervisor", "Team Lead":
		return RoleSupervisor
	case "Intern":
		return RoleIntern
	default:
		return RoleMember
	}
}

// AdditionalRoles mengembalikan role aditif dari flag admin/owner.
func AdditionalRoles(isAdmin, isOwner bool) []string {
	var roles []string
	if isAdmin {
		roles = append(roles, RoleAdmin)
	}
	if isOwner {
		roles = append(roles, RoleOwner)
	}
	return roles
}

// ResolveRoles menggabungkan role posisi dengan role aditif.
func ResolveRoles(position string, isAdmin, isOwner bool) []string {
	return append([]string{ResolveRole(position)}, AdditionalRoles(isAdmin, isOwner)...)
}

// BasePermissions selalu diberikan ke setiap anggota organisasi.
func BasePermissions() []string {
	return []string{
		"organization.view",
		"organization.members.view",
		"profile.update",
		"profile.view",
	}
}

// ResolvePermissions menyusun permission dari base set ditambah lapisan
// per tier posisi. Tanpa side effect dan tanpa I/O.
func ResolvePermissions(position string) []string {
	return PermissionsForRole(ResolveRole(position))
}

// PermissionsForRole mengembalikan permission untuk satu role tag.
func PermissionsForRole(role string) []string {
	permissions := BasePermissions()

	switch role {
	case RoleExecutive:
		permissions = append(permissions,
			"organization.manage",
			"organization.users.manage",
			"organization.settings.manage",
			"organization.billing.manage",
			"organization.reports.view",
		)
	case RoleManager:
		permissions = append(permissions,
			"organization.team.manage",
			"organization.users.view",
			"organization.reports.view",
		)
	case RoleSupervisor:
		permissions = append(permissions,
			"organization.team.view",
			"organization.users.view",
		)
	}

	return permissions
}
