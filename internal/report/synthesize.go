// Package report folds the collected interview results into one synthesized
// report: score, tone metrics, go/no-go verdict, and an executive summary.
package report

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/erin/vibecheck/internal/llm"
	"github.com/erin/vibecheck/internal/prompts"
	"github.com/erin/vibecheck/internal/schemas"
	"github.com/erin/vibecheck/internal/types"
)

// Synthesize produces the final report from the complete ordered interview
// result set. It is a single call: not incremental, not streamed. Callers
// must not invoke it with zero results.
func Synthesize(ctx context.Context, client llm.Client, results []types.InterviewResult, mode types.ContentMode) (*types.Report, error) {
	if len(results) == 0 {
		return nil, &ValidationError{
			Field:   "results",
			Message: "at least one interview result is required",
		}
	}

	prompt, err := buildSynthesisPrompt(results, mode)
	if err != nil {
		return nil, err
	}

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to synthesize report",
			Cause:   err,
		}
	}

	if err := schemas.Validate(schemas.Report, responseText); err != nil {
		return nil, &ParseError{
			Message: "report failed schema validation",
			Cause:   err,
		}
	}

	var payload reportPayload
	if err := json.Unmarshal([]byte(responseText), &payload); err != nil {
		return nil, &ParseError{
			Message: "failed to parse report JSON",
			Cause:   err,
		}
	}

	rep := payload.toReport()
	postProcessReport(rep)
	return rep, nil
}

// reportPayload is the wire shape of the synthesis response. The schema
// allows any JSON number, so integer-scaled fields decode as float64 here
// and are rounded once, instead of failing the whole synthesis when the
// model returns a fractional score.
type reportPayload struct {
	OverallScore float64 `json:"overall_score"`
	ToneAnalysis struct {
		Defensiveness  float64 `json:"defensiveness"`
		Corporatespeak float64 `json:"corporatespeak"`
		Empathy        float64 `json:"empathy"`
		Clarity        float64 `json:"clarity"`
	} `json:"tone_analysis"`
	GoNoGo *struct {
		Decision        string  `json:"decision"`
		ConfidenceScore float64 `json:"confidence_score"`
		Reasoning       string  `json:"reasoning"`
	} `json:"go_no_go"`
	ExecutiveSummary string `json:"executive_summary"`
}

func (p *reportPayload) toReport() *types.Report {
	rep := &types.Report{
		OverallScore: p.OverallScore,
		ToneAnalysis: types.ToneAnalysis{
			Defensiveness:  int(math.Round(p.ToneAnalysis.Defensiveness)),
			Corporatespeak: int(math.Round(p.ToneAnalysis.Corporatespeak)),
			Empathy:        int(math.Round(p.ToneAnalysis.Empathy)),
			Clarity:        int(math.Round(p.ToneAnalysis.Clarity)),
		},
		ExecutiveSummary: p.ExecutiveSummary,
	}
	if p.GoNoGo != nil {
		rep.GoNoGo = &types.GoNoGo{
			Decision:        p.GoNoGo.Decision,
			ConfidenceScore: int(math.Round(p.GoNoGo.ConfidenceScore)),
			Reasoning:       p.GoNoGo.Reasoning,
		}
	}
	return rep
}

// buildSynthesisPrompt serializes the result set into the synthesis prompt
func buildSynthesisPrompt(results []types.InterviewResult, mode types.ContentMode) (string, error) {
	resultsJSON, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", &ParseError{
			Message: "failed to serialize interview results",
			Cause:   err,
		}
	}

	directiveKey := "mode-standard"
	if mode == types.ModeCrisis {
		directiveKey = "mode-crisis"
	}

	template := prompts.MustGet("report.json", "synthesize-report")
	return prompts.Format(template, map[string]string{
		"Results":       string(resultsJSON),
		"ModeDirective": prompts.MustGet("report.json", directiveKey),
	}), nil
}

// postProcessReport normalizes scores and the go/no-go decision
func postProcessReport(rep *types.Report) {
	// Some models return the overall score as a 0-1 fraction
	if rep.OverallScore <= 1.0 {
		rep.OverallScore *= 10
	}
	rep.OverallScore = clampFloat(rep.OverallScore, 0, 10)

	rep.ToneAnalysis.Defensiveness = clampInt(rep.ToneAnalysis.Defensiveness, 0, 100)
	rep.ToneAnalysis.Corporatespeak = clampInt(rep.ToneAnalysis.Corporatespeak, 0, 100)
	rep.ToneAnalysis.Empathy = clampInt(rep.ToneAnalysis.Empathy, 0, 100)
	rep.ToneAnalysis.Clarity = clampInt(rep.ToneAnalysis.Clarity, 0, 100)

	if rep.GoNoGo != nil {
		rep.GoNoGo.Decision = normalizeDecision(rep.GoNoGo.Decision)
		rep.GoNoGo.ConfidenceScore = clampInt(rep.GoNoGo.ConfidenceScore, 0, 100)
	}
}

// normalizeDecision maps decision strings to the three allowed values,
// falling back to HOLD when the model invents something new.
func normalizeDecision(decision string) string {
	d := strings.ToUpper(strings.TrimSpace(decision))
	d = strings.ReplaceAll(d, " ", "-")
	d = strings.ReplaceAll(d, "_", "-")

	switch d {
	case types.DecisionGo, types.DecisionNoGo, types.DecisionHold:
		return d
	case "NOGO":
		return types.DecisionNoGo
	default:
		return types.DecisionHold
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
