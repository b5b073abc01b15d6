package profile

type UpsertProfileRequest struct {
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Phone          string   `json:"phone"`
	JobTitle       string   `json:"job_title"`
	Department     string   `json:"department"`
	Division       string   `json:"division"`
	Team           string   `json:"team"`
	HireDate       string   `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	EmploymentType string   `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract internship"`
	Salary         *float64 `json:"salary" binding:"omitempty,min=0"`
	Bio            string   `json:"bio"`
	AvatarURL      string   `json:"avatar_url" binding:"omitempty,url"`
}

type ProfileResponse struct {
	UserID         string   `json:"user_id"`
	FirstName      string   `json:"first_name,omitempty"`
	LastName       string   `json:"last_name,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	JobTitle       string   `json:"job_title,omitempty"`
	EmployeeNumber string   `json:"employee_number,omitempty"`
	Department     string   `json:"department,omitempty"`
	Division       string   `json:"division,omitempty"`
	Team           string   `json:"team,omitempty"`
	HireDate       string   `json:"hire_date,omitempty"`
	EmploymentType string   `json:"employment_type,omitempty"`
	Salary         *float64 `json:"salary,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
}

func mapToResponse(p *Profile) ProfileResponse {
	resp := ProfileResponse{
		UserID:         p.UserID.String(),
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Phone:          p.Phone,
		JobTitle:       p.JobTitle,
		EmployeeNumber: p.EmployeeNumber,
		Department:     p.Department,
		Division:       p.Division,
		Team:           p.Team,
		EmploymentType: p.EmploymentType,
		Salary:         p.Salary,
		Bio:            p.Bio,
		AvatarURL:      p.AvatarURL,
	}
	if p.HireDate != nil {
		resp.HireDate = p.HireDate.Format("2006-01-02")
	}
	return resp
}
