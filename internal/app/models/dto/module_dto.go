package dto

import "github.com/uruhongore/academy/internal/app/models"

// ModuleRequest is the body for creating a module
type ModuleRequest struct {
	Name       string `json:"name" binding:"required" example:"Pré-lecture"`
	Category   string `json:"category" example:"Langage"`
	Active     *bool  `json:"active"`
	IndexOrder int    `json:"indexOrder" binding:"min=0"`
}

// BulkModuleRequest creates several modules in one call
type BulkModuleRequest struct {
	Modules []ModuleRequest `json:"modules" binding:"required,min=1,dive"`
}

// UpdateModuleRequest updates only the supplied fields
type UpdateModuleRequest struct {
	Name       *string `json:"name"`
	Category   *string `json:"category"`
	Active     *bool   `json:"active"`
	IndexOrder *int    `json:"indexOrder" binding:"omitempty,min=0"`
}

// ToModel converts the request, defaulting Active to true
func (r ModuleRequest) ToModel() *models.Module {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &models.Module{
		Name:       r.Name,
		Category:   r.Category,
		Active:     active,
		IndexOrder: r.IndexOrder,
	}
}
