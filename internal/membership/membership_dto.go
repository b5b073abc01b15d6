package membership

import (
	"time"

	"go-userhub/internal/user"
)

type JoinRequest struct {
	UserID             string         `json:"user_id" binding:"required,uuid"`
	Position           string         `json:"position"`
	ReportsToUserID    string         `json:"reports_to_user_id" binding:"omitempty,uuid"`
	SecondaryManagerID string         `json:"secondary_manager_id" binding:"omitempty,uuid"`
	IsAdmin            bool           `json:"is_admin"`
	IsOwner            bool           `json:"is_owner"`
	WorkLocation       string         `json:"work_location" binding:"omitempty,oneof=office remote hybrid"`
	OfficeLocation     string         `json:"office_location"`
	Settings           map[string]any `json:"settings"`
	// EffectiveDate hanya metadata; perubahan berlaku saat request diproses.
	EffectiveDate string `json:"effective_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdatePositionRequest struct {
	Position      string `json:"position" binding:"required"`
	EffectiveDate string `json:"effective_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateMemberRequest struct {
	SecondaryManagerID *string        `json:"secondary_manager_id" binding:"omitempty,uuid"`
	IsAdmin            *bool          `json:"is_admin"`
	WorkLocation       *string        `json:"work_location" binding:"omitempty,oneof=office remote hybrid"`
	OfficeLocation     *string        `json:"office_location"`
	Settings           map[string]any `json:"settings"`
}

type TransferRequest struct {
	NewManagerID    string `json:"new_manager_id" binding:"required,uuid"`
	TransferReports bool   `json:"transfer_reports"`
	EffectiveDate   string `json:"effective_date" binding:"omitempty,datetime=2006-01-02"`
}

type MemberResponse struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	OrganizationID     string             `json:"organization_id"`
	Position           string             `json:"position,omitempty"`
	Role               string             `json:"role"`
	Roles              []string           `json:"roles"`
	Permissions        []string           `json:"permissions"`
	IsAdmin            bool               `json:"is_admin"`
	IsOwner            bool               `json:"is_owner"`
	ReportsToUserID    string             `json:"reports_to_user_id,omitempty"`
	PrimaryManagerID   string             `json:"primary_manager_id,omitempty"`
	SecondaryManagerID string             `json:"secondary_manager_id,omitempty"`
	WorkLocation       string             `json:"work_location,omitempty"`
	OfficeLocation     string             `json:"office_location,omitempty"`
	WorkSchedule       *user.WorkSchedule `json:"work_schedule,omitempty"`
	JoinedAt           string             `json:"joined_at,omitempty"`
}

// TreeNode adalah satu simpul pada pohon hirarki organisasi.
type TreeNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Position string     `json:"position,omitempty"`
	Role     string     `json:"role"`
	Children []TreeNode `json:"children,omitempty"`
}

func mapToMemberResponse(u user.User) MemberResponse {
	position := ""
	if u.OrganizationPosition != nil {
		position = *u.OrganizationPosition
	}

	resp := MemberResponse{
		ID:             u.ID.String(),
		Name:           u.Name,
		Email:          u.Email,
		Position:       position,
		Role:           ResolveRole(position),
		Roles:          ResolveRoles(position, u.IsOrganizationAdmin, u.IsOrganizationOwner),
		Permissions:    u.OrganizationPermissions,
		IsAdmin:        u.IsOrganizationAdmin,
		IsOwner:        u.IsOrganizationOwner,
		WorkLocation:   u.WorkLocation,
		OfficeLocation: u.OfficeLocation,
		WorkSchedule:   u.WorkSchedule,
	}
	if u.OrganizationID != nil {
		resp.OrganizationID = u.OrganizationID.String()
	}
	if u.ReportsToUserID != nil {
		resp.ReportsToUserID = u.ReportsToUserID.String()
	}
	if u.PrimaryManagerID != nil {
		resp.PrimaryManagerID = u.PrimaryManagerID.String()
	}
	if u.SecondaryManagerID != nil {
		resp.SecondaryManagerID = u.SecondaryManagerID.String()
	}
	if u.OrganizationJoinedAt != nil {
		resp.JoinedAt = u.OrganizationJoinedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func mapToMemberListResponse(users []user.User) []MemberResponse {
	res := make([]MemberResponse, len(users))
	for i, u := range users {
		res[i] = mapToMemberResponse(u)
	}
	return res
}
