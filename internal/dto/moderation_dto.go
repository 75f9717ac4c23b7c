package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	ContentType string `json:"contentType" validate:"required,oneof=user session review message"`
	ContentID   string `json:"contentId" validate:"required,max=255"`
	Reason      string `json:"reason" validate:"required,max=500"`
}

type ActionReportRequest struct {
	Status    string `json:"status" validate:"required,oneof=reviewed actioned dismissed"`
	AdminNote string `json:"adminNote" validate:"max=1000"`
}

type BlockUserRequest struct {
	BlockedID uuid.UUID `json:"blockedId" validate:"required"`
}
