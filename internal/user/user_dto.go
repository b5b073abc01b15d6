package user

import "time"

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	UserType string `json:"user_type"`
	Timezone string `json:"timezone"`
	Locale   string `json:"locale"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Timezone string `json:"timezone"`
	Locale   string `json:"locale"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type UserResponse struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	UserType             string     `json:"user_type"`
	Status               string     `json:"status"`
	Timezone             string     `json:"timezone,omitempty"`
	Locale               string     `json:"locale,omitempty"`
	OrganizationID       string     `json:"organization_id,omitempty"`
	OrganizationPosition string     `json:"organization_position,omitempty"`
	IsOrganizationAdmin  bool       `json:"is_organization_admin"`
	IsOrganizationOwner  bool       `json:"is_organization_owner"`
	ReportsToUserID      string     `json:"reports_to_user_id,omitempty"`
	PrimaryManagerID     string     `json:"primary_manager_id,omitempty"`
	SecondaryManagerID   string     `json:"secondary_manager_id,omitempty"`
	WorkLocation         string     `json:"work_location,omitempty"`
	OfficeLocation       string     `json:"office_location,omitempty"`
	Permissions          []string   `json:"organization_permissions,omitempty"`
	JoinedAt             *time.Time `json:"organization_joined_at,omitempty"`
	LastLoginAt          *time.Time `json:"last_login_at,omitempty"`
	CreatedAt            string     `json:"created_at"`
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:                  u.ID.String(),
		Name:                u.Name,
		Email:               u.Email,
		UserType:            u.UserType,
		Status:              u.Status,
		Timezone:            u.Timezone,
		Locale:              u.Locale,
		IsOrganizationAdmin: u.IsOrganizationAdmin,
		IsOrganizationOwner: u.IsOrganizationOwner,
		WorkLocation:        u.WorkLocation,
		OfficeLocation:      u.OfficeLocation,
		Permissions:         u.OrganizationPermissions,
		JoinedAt:            u.OrganizationJoinedAt,
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	if u.OrganizationID != nil {
		resp.OrganizationID = u.OrganizationID.String()
	}
	if u.OrganizationPosition != nil {
		resp.OrganizationPosition = *u.OrganizationPosition
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

	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
