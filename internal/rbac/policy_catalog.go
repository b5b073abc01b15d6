package rbac

import "go-userhub/internal/membership"

// permissionPolicies memetakan permission string ke pasangan resource/action
// yang di-enforce di HTTP layer.
var permissionPolicies = map[string][][2]string{
	"organization.view": {
		{"organization", "read"},
	},
	"organization.members.view": {
		{"member", "read"},
	},
	"profile.view": {
		{"profile", "read"},
	},
	"profile.update": {
		{"profile", "update"},
	},
	"organization.manage": {
		{"organization", "update"},
		{"organization", "delete"},
	},
	"organization.users.manage": {
		{"member", "create"},
		{"member", "update"},
		{"member", "delete"},
		{"user", "create"},
		{"user", "update"},
		{"user", "delete"},
	},
	"organization.settings.manage": {
		{"organization", "update"},
	},
	"organization.billing.manage": {
		{"billing", "manage"},
	},
	"organization.reports.view": {
		{"reports", "read"},
	},
	"organization.team.manage": {
		{"member", "update"},
		{"user", "read"},
	},
	"organization.team.view": {
		{"member", "read"},
	},
	"organization.users.view": {
		{"user", "read"},
	},
}

// adminPolicies melengkapi role admin/owner: akses penuh ke seluruh resource
// organisasi, terlepas dari posisi.
var adminPolicies = [][2]string{
	{"organization", "read"},
	{"organization", "update"},
	{"organization", "delete"},
	{"organization", "create"},
	{"member", "read"},
	{"member", "create"},
	{"member", "update"},
	{"member", "delete"},
	{"user", "read"},
	{"user", "create"},
	{"user", "update"},
	{"user", "delete"},
	{"profile", "read"},
	{"profile", "update"},
	{"billing", "manage"},
	{"reports", "read"},
}

// policiesForRole menurunkan pasangan resource/action dari permission set
// sebuah role.
func policiesForRole(role string) [][2]string {
	if role == membership.RoleAdmin || role == membership.RoleOwner {
		return adminPolicies
	}

	seen := map[[2]string]struct{}{}
	var result [][2]string
	for _, perm := range membership.PermissionsForRole(role) {
		for _, pair := range permissionPolicies[perm] {
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}
			result = append(result, pair)
		}
	}
	return result
}

// policiesForPermissions menurunkan pasangan resource/action dari grant
// eksplisit per user.
func policiesForPermissions(perms []string) [][2]string {
	seen := map[[2]string]struct{}{}
	var result [][2]string
	for _, perm := range perms {
		for _, pair := range permissionPolicies[perm] {
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}
			result = append(result, pair)
		}
	}
	return result
}
