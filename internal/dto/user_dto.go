package dto

// UpdateProfileRequest changes the caller's own profile. Nil fields are kept.
type UpdateProfileRequest struct {
	FirstName    *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	PhoneNumber  *string `json:"phoneNumber" validate:"omitempty,max=50"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,max=500"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user mentor admin"`
}

type OverviewResponse struct {
	UsersByRole      map[string]int64 `json:"usersByRole"`
	TotalUsers       int64            `json:"totalUsers"`
	SessionsByStatus map[string]int64 `json:"sessionsByStatus"`
	TotalSessions    int64            `json:"totalSessions"`
	GrossRevenue     float64          `json:"grossRevenue"`
	PlatformRevenue  float64          `json:"platformRevenue"`
	Currency         string           `json:"currency"`
}
