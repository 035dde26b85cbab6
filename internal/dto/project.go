package dto

import (
	"time"

	"gorm.io/datatypes"
)

type CreateProjectRequest struct {
	Name        string         `json:"name" binding:"required,min=2,max=100"`
	Description string         `json:"description" binding:"omitempty,max=500"`
	Status      string         `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	Metadata    datatypes.JSON `json:"metadata" binding:"omitempty"`
}

type UpdateProjectRequest struct {
	Name        string         `json:"name" binding:"omitempty,min=2,max=100"`
	Description string         `json:"description" binding:"omitempty,max=500"`
	Status      string         `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	Metadata    datatypes.JSON `json:"metadata" binding:"omitempty"`
}

// ProjectOwner is the trimmed owner view embedded in project responses
type ProjectOwner struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProjectResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Owner       ProjectOwner   `json:"owner"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
