package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare json untouched", `{"id": 1}`, `{"id": 1}`},
		{"json fence", "```json\n{\"id\": 1}\n```", `{"id": 1}`},
		{"plain fence", "```\n{\"id\": 1}\n```", `{"id": 1}`},
		{"fence with language tag", "```javascript\n{\"id\": 1}\n```", `{"id": 1}`},
		{"surrounding whitespace", "  \n{\"id\": 1}\n ", `{"id": 1}`},
		{"fence containing backticks in payload", "```json\n{\"code\": \"``\"}\n```", "{\"code\": \"``\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestConfigGetModelFallback(t *testing.T) {
	cfg := &Config{Models: map[ModelTier]string{TierLite: "lite-model"}}
	assert.Equal(t, "lite-model", cfg.GetModel(TierAdvanced))

	cfg = &Config{Models: map[ModelTier]string{TierStandard: "std-model"}}
	assert.Equal(t, "std-model", cfg.GetModel(TierAdvanced))

	cfg = &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", cfg.GetModel(TierStandard))
}

func TestConfigWithModel(t *testing.T) {
	base := DefaultConfig()
	derived := base.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "custom-model", derived.GetModel(TierStandard))
	// Original config is untouched
	assert.NotEqual(t, "custom-model", base.GetModel(TierStandard))
	assert.Equal(t, base.Temperature, derived.Temperature)
}
