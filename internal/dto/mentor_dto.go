package dto

import "github.com/mentorconnect/backend/internal/models"

// UpdateMentorProfileRequest changes the caller's mentor profile. Rating and
// review counts are derived and cannot be set here.
type UpdateMentorProfileRequest struct {
	Bio          *string                    `json:"bio" validate:"omitempty,max=2000"`
	Expertise    *[]string                  `json:"expertise" validate:"omitempty,dive,min=1,max=100"`
	Availability *[]models.AvailabilitySlot `json:"availability"`
	HourlyRate   *float64                   `json:"hourlyRate" validate:"omitempty,gte=0"`
	PhoneNumber  *string                    `json:"phoneNumber" validate:"omitempty,max=50"`
}

type MentorQuery struct {
	Expertise string   `query:"expertise"`
	MinRating *float64 `query:"minRating"`
	MaxPrice  *float64 `query:"maxPrice"`
	Search    string   `query:"search"`
}

type EarningsResponse struct {
	GrossEarnings     float64 `json:"grossEarnings"`
	PlatformFee       float64 `json:"platformFee"`
	NetEarnings       float64 `json:"netEarnings"`
	PendingPayouts    float64 `json:"pendingPayouts"`
	CompletedPayouts  float64 `json:"completedPayouts"`
	CompletedSessions int     `json:"completedSessions"`
	FeePercentage     float64 `json:"feePercentage"`
	Currency          string  `json:"currency"`
}
