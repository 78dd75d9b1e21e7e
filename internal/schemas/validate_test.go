package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPersona = `{
	"name": "Dana Reyes",
	"role": "Skeptical Customer",
	"description": "Burned by a previous price change.",
	"pain_points": ["hidden fees"]
}`

func TestValidatePersona(t *testing.T) {
	assert.NoError(t, Validate(Persona, validPersona))
}

func TestValidatePersonaMissingField(t *testing.T) {
	err := Validate(Persona, `{"name": "Dana", "role": "Customer"}`)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidatePersonaSlate(t *testing.T) {
	slate := `[` + validPersona + `,` + validPersona + `]`
	assert.NoError(t, Validate(PersonaSlate, slate))

	// An empty slate is a failed generation, not a valid one
	assert.Error(t, Validate(PersonaSlate, `[]`))

	// An object where an array is expected
	assert.Error(t, Validate(PersonaSlate, validPersona))
}

func TestValidateInterviewResult(t *testing.T) {
	valid := `{
		"persona_name": "Dana Reyes",
		"strengths": ["clear headline"],
		"confusion_points": [],
		"suggestions": ["state the price"]
	}`
	assert.NoError(t, Validate(InterviewResult, valid))

	assert.Error(t, Validate(InterviewResult, `{"persona_name": "Dana"}`))
}

func TestValidateReport(t *testing.T) {
	valid := `{
		"overall_score": 7.5,
		"tone_analysis": {"defensiveness": 20, "corporatespeak": 45, "empathy": 60, "clarity": 70},
		"go_no_go": {"decision": "HOLD", "confidence_score": 64, "reasoning": "Pricing unclear."},
		"executive_summary": "Mostly lands, but the pricing section reads as evasive."
	}`
	assert.NoError(t, Validate(Report, valid))

	// go_no_go is optional
	withoutDecision := `{
		"overall_score": 5,
		"tone_analysis": {"defensiveness": 1, "corporatespeak": 2, "empathy": 3, "clarity": 4},
		"executive_summary": "Fine."
	}`
	assert.NoError(t, Validate(Report, withoutDecision))

	assert.Error(t, Validate(Report, `{"overall_score": 5}`))
}

func TestValidateMalformedJSON(t *testing.T) {
	err := Validate(Persona, `{not json`)
	require.Error(t, err)
}

func TestValidateUnknownSchema(t *testing.T) {
	err := Validate("nope.schema.json", `{}`)
	require.Error(t, err)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}
