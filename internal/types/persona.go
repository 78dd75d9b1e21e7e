// Package types provides type definitions for structured data used throughout the vibecheck system.
package types

import "strings"

// WildcardIDPrefix marks personas minted by the wildcard endpoint.
// The prefix is a display hint only; persona ID is the sole identity key.
const WildcardIDPrefix = "wildcard-"

// Persona is a synthetic reviewer profile generated by the LLM.
// Personas are immutable after creation.
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Description string   `json:"description"`
	PainPoints  []string `json:"pain_points"`
	AvatarRef   string   `json:"avatar_ref,omitempty"`
}

// IsWildcard reports whether the persona came from the wildcard endpoint
// rather than the initial slate.
func (p *Persona) IsWildcard() bool {
	return strings.HasPrefix(p.ID, WildcardIDPrefix)
}
