// Package interview provides the single-persona interview simulation: one
// evaluation pass of the content through one reviewer persona.
package interview

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/erin/vibecheck/internal/llm"
	"github.com/erin/vibecheck/internal/prompts"
	"github.com/erin/vibecheck/internal/schemas"
	"github.com/erin/vibecheck/internal/types"
)

// Simulate runs one interview of the content by the given persona.
// The returned result is immutable; ownership passes to the caller.
func Simulate(ctx context.Context, client llm.Client, content string, p types.Persona, mode types.ContentMode) (*types.InterviewResult, error) {
	prompt := buildInterviewPrompt(content, p, mode)

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to simulate interview for " + p.Name,
			Cause:   err,
		}
	}

	if err := schemas.Validate(schemas.InterviewResult, responseText); err != nil {
		return nil, &ParseError{
			Message: "interview result failed schema validation",
			Cause:   err,
		}
	}

	var result types.InterviewResult
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		return nil, &ParseError{
			Message: "failed to parse interview result JSON",
			Cause:   err,
		}
	}

	// The model occasionally rewrites the name; results are keyed by the
	// persona we asked for.
	result.PersonaName = p.Name

	return &result, nil
}

// buildInterviewPrompt constructs the in-character interview prompt
func buildInterviewPrompt(content string, p types.Persona, mode types.ContentMode) string {
	directiveKey := "mode-standard"
	if mode == types.ModeCrisis {
		directiveKey = "mode-crisis"
	}

	template := prompts.MustGet("interview.json", "simulate-interview")
	return prompts.Format(template, map[string]string{
		"PersonaName":        p.Name,
		"PersonaRole":        p.Role,
		"PersonaDescription": p.Description,
		"PainPoints":         strings.Join(p.PainPoints, "; "),
		"ModeDirective":      prompts.MustGet("interview.json", directiveKey),
		"Content":            content,
	})
}
