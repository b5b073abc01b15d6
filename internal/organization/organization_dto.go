package organization

import "time"

type CreateOrganizationRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"omitempty,email"`
	Timezone         string `json:"timezone"`
	UserLimit        int    `json:"user_limit" binding:"omitempty,min=0"`
	RequiresApproval bool   `json:"requires_approval"`
	OwnerUserID      string `json:"owner_user_id" binding:"omitempty,uuid"`
}

type UpdateOrganizationRequest struct {
	Name             string `json:"name"`
	Timezone         string `json:"timezone"`
	UserLimit        *int   `json:"user_limit" binding:"omitempty,min=0"`
	RequiresApproval *bool  `json:"requires_approval"`
	IsActive         *bool  `json:"is_active"`
}

type OrganizationResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Timezone         string `json:"timezone"`
	UserLimit        int    `json:"user_limit"`
	RequiresApproval bool   `json:"requires_approval"`
	IsActive         bool   `json:"is_active"`
	OwnerUserID      string `json:"owner_user_id,omitempty"`
	MemberCount      int64  `json:"member_count"`
}

type UpsertOfficeLocationRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

type OfficeLocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
