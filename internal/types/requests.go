package types

import "github.com/go-playground/validator/v10"

// SetCredentialRequest carries a new API credential. The key is trimmed by
// the handler before validation; the store itself accepts any string.
type SetCredentialRequest struct {
	APIKey string `json:"api_key" validate:"required,min=1"`
}

// SetContentRequest replaces the content under evaluation.
type SetContentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
	Source  string `json:"source,omitempty" validate:"omitempty,oneof=text youtube file"`
}

// SetModeRequest switches the content evaluation mode.
type SetModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=standard crisis"`
}

// AdvanceRequest jumps the wizard to a target step.
type AdvanceRequest struct {
	Step string `json:"step" validate:"required,oneof=credential content-input persona-selection analysis report"`
}

// Validate validates the SetCredentialRequest using the validator.
func (r *SetCredentialRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SetContentRequest using the validator.
func (r *SetContentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SetModeRequest using the validator.
func (r *SetModeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the AdvanceRequest using the validator.
func (r *AdvanceRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
