package dto

import "github.com/google/uuid"

// CreateReviewRequest mirrors the client payload. UserID and MentorID are
// optional; when present they must agree with the session.
type CreateReviewRequest struct {
	UserID    *uuid.UUID `json:"userId"`
	MentorID  *uuid.UUID `json:"mentorId"`
	SessionID uuid.UUID  `json:"sessionId" validate:"required"`
	Rating    int        `json:"rating" validate:"required,min=1,max=5"`
	Comment   string     `json:"comment" validate:"required,max=2000"`
	IsPublic  *bool      `json:"isPublic"`
}

type UpdateReviewRequest struct {
	Rating   *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment  *string `json:"comment" validate:"omitempty,min=1,max=2000"`
	IsPublic *bool   `json:"isPublic"`
}
