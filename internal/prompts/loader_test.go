package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownPrompts(t *testing.T) {
	tests := []struct {
		filename string
		key      string
		contains string
	}{
		{"personas.json", "generate-slate", "{{.Content}}"},
		{"personas.json", "generate-wildcard", "wildcard"},
		{"personas.json", "mode-crisis", "adversarial"},
		{"interview.json", "simulate-interview", "{{.PersonaName}}"},
		{"report.json", "synthesize-report", "{{.Results}}"},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"/"+tt.key, func(t *testing.T) {
			prompt, err := Get(tt.filename, tt.key)
			require.NoError(t, err)
			assert.Contains(t, prompt, tt.contains)
		})
	}
}

func TestGetMissingKey(t *testing.T) {
	_, err := Get("personas.json", "no-such-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-key")
}

func TestGetMissingFile(t *testing.T) {
	_, err := Get("missing.json", "generate-slate")
	require.Error(t, err)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("personas.json", "definitely-not-there")
	})
}

func TestFormat(t *testing.T) {
	template := "Interviewing {{.Name}} about {{.Topic}}. {{.Name}} is ready."
	result := Format(template, map[string]string{
		"Name":  "Dana",
		"Topic": "pricing",
	})

	assert.Equal(t, "Interviewing Dana about pricing. Dana is ready.", result)
	assert.False(t, strings.Contains(result, "{{"))
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	result := Format("{{.Known}} and {{.Unknown}}", map[string]string{"Known": "x"})
	assert.Equal(t, "x and {{.Unknown}}", result)
}
