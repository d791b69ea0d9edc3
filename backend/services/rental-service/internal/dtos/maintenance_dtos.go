package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

// SubmitMaintenanceFields are the text parts of the multipart form.
type SubmitMaintenanceFields struct {
	Title       string `validate:"required,max=120"`
	Description string `validate:"required,max=4000"`
}

type MaintenanceCaseResponse struct {
	ID          uuid.UUID                `json:"id"`
	TenancyID   uuid.UUID                `json:"tenancy_id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Images      []string                 `json:"images"`
	Status      models.MaintenanceStatus `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
}

func NewMaintenanceCaseResponse(c *models.MaintenanceCase) MaintenanceCaseResponse {
	return MaintenanceCaseResponse{
		ID:          c.ID,
		TenancyID:   c.TenancyID,
		Title:       c.Title,
		Description: c.Description,
		Images:      nonNil(c.Images),
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
}

func NewMaintenanceListResponse(cs []*models.MaintenanceCase) []MaintenanceCaseResponse {
	out := make([]MaintenanceCaseResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewMaintenanceCaseResponse(c))
	}
	return out
}
