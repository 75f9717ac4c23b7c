package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/models"
)

type RegisterRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"omitempty,oneof=user mentor"`
	PhoneNumber string `json:"phoneNumber" validate:"max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID               uuid.UUID  `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	PhoneNumber      string     `json:"phoneNumber,omitempty"`
	ProfileImage     string     `json:"profileImage,omitempty"`
	ProfileCompleted bool       `json:"profileCompleted"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Role:             u.Role,
		PhoneNumber:      u.PhoneNumber,
		ProfileImage:     u.ProfileImage,
		ProfileCompleted: u.ProfileCompleted,
		LastLogin:        u.LastLogin,
	}
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Store     string `json:"store"`
}
