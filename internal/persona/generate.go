// Package persona provides functionality to generate reviewer personas from
// content using LLM generation: an initial slate plus on-demand wildcards.
package persona

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/erin/vibecheck/internal/llm"
	"github.com/erin/vibecheck/internal/prompts"
	"github.com/erin/vibecheck/internal/schemas"
	"github.com/erin/vibecheck/internal/types"
)

// personaPayload is the persona shape the LLM returns; IDs and avatars are
// assigned by this package, never by the model.
type personaPayload struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Description string   `json:"description"`
	PainPoints  []string `json:"pain_points"`
}

// Generate produces the initial slate of reviewer personas for the content.
// Callers are responsible for the at-most-once-per-content guard; this
// function performs the call every time it is invoked.
func Generate(ctx context.Context, client llm.Client, content string, mode types.ContentMode) ([]types.Persona, error) {
	prompt := buildSlatePrompt(content, mode)

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate persona slate",
			Cause:   err,
		}
	}

	if err := schemas.Validate(schemas.PersonaSlate, responseText); err != nil {
		return nil, &ParseError{
			Message: "persona slate failed schema validation",
			Cause:   err,
		}
	}

	var payloads []personaPayload
	if err := json.Unmarshal([]byte(responseText), &payloads); err != nil {
		return nil, &ParseError{
			Message: "failed to parse persona slate JSON",
			Cause:   err,
		}
	}

	personas := make([]types.Persona, 0, len(payloads))
	for _, p := range payloads {
		personas = append(personas, newPersona("persona-", p))
	}
	return personas, nil
}

// GenerateWildcard mints one additional persona outside the initial slate.
// Callable any number of times; each call returns a fresh persona with a
// wildcard-prefixed ID.
func GenerateWildcard(ctx context.Context, client llm.Client, content string) (*types.Persona, error) {
	template := prompts.MustGet("personas.json", "generate-wildcard")
	prompt := prompts.Format(template, map[string]string{
		"Content": content,
	})

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate wildcard persona",
			Cause:   err,
		}
	}

	if err := schemas.Validate(schemas.Persona, responseText); err != nil {
		return nil, &ParseError{
			Message: "wildcard persona failed schema validation",
			Cause:   err,
		}
	}

	var payload personaPayload
	if err := json.Unmarshal([]byte(responseText), &payload); err != nil {
		return nil, &ParseError{
			Message: "failed to parse wildcard persona JSON",
			Cause:   err,
		}
	}

	p := newPersona(types.WildcardIDPrefix, payload)
	return &p, nil
}

func newPersona(idPrefix string, payload personaPayload) types.Persona {
	return types.Persona{
		ID:          idPrefix + uuid.NewString(),
		Name:        strings.TrimSpace(payload.Name),
		Role:        strings.TrimSpace(payload.Role),
		Description: strings.TrimSpace(payload.Description),
		PainPoints:  payload.PainPoints,
	}
}

// buildSlatePrompt constructs the slate generation prompt for the given mode
func buildSlatePrompt(content string, mode types.ContentMode) string {
	directiveKey := "mode-standard"
	if mode == types.ModeCrisis {
		directiveKey = "mode-crisis"
	}

	template := prompts.MustGet("personas.json", "generate-slate")
	return prompts.Format(template, map[string]string{
		"Content":       content,
		"ModeDirective": prompts.MustGet("personas.json", directiveKey),
	})
}
