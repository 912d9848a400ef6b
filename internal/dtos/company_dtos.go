package dtos

// ----- Company DTOs -----

type CreateCompanyRequest struct {
	Name     string            `json:"name" validate:"required,min=2,max=255"`
	Slug     string            `json:"slug" validate:"required,min=2,max=64,lowercase"`
	Settings map[string]string `json:"settings,omitempty"`
}

type UpdateCompanyRequest struct {
	Name     *string           `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Settings map[string]string `json:"settings,omitempty"`
}
