// Package wizard owns the five-step workflow state machine and the session
// record every other component reads and writes, plus the sequential
// interview analysis pipeline that drives a run from persona selection to
// the synthesized report.
package wizard

import "github.com/erin/vibecheck/internal/types"

// Step identifies one of the five wizard steps.
type Step string

// The five steps, in their natural forward order. The machine is cyclic:
// Reset returns a finished run to StepContentInput.
const (
	StepCredential       Step = "credential"
	StepContentInput     Step = "content-input"
	StepPersonaSelection Step = "persona-selection"
	StepAnalysis         Step = "analysis"
	StepReport           Step = "report"
)

// Valid reports whether the step is one of the five known values.
func (s Step) Valid() bool {
	switch s {
	case StepCredential, StepContentInput, StepPersonaSelection, StepAnalysis, StepReport:
		return true
	}
	return false
}

// Session is the single mutable record for one run. All mutation goes
// through Controller methods; readers get deep copies via Snapshot.
type Session struct {
	CurrentStep       Step                    `json:"current_step"`
	Content           string                  `json:"content"`
	ContentSource     types.ContentSource     `json:"content_source"`
	ContentMode       types.ContentMode       `json:"content_mode"`
	GeneratedPersonas []types.Persona         `json:"generated_personas"`
	SelectedPersonas  []types.Persona         `json:"selected_personas"`
	InterviewResults  []types.InterviewResult `json:"interview_results"`
	FinalReport       *types.Report           `json:"final_report,omitempty"`

	IsGeneratingPersonas bool `json:"is_generating_personas"`
	IsGeneratingWildcard bool `json:"is_generating_wildcard"`
	IsAnalyzing          bool `json:"is_analyzing"`
}

// newSession returns the initial session shape for a fresh process.
func newSession() *Session {
	return &Session{
		CurrentStep:   StepCredential,
		ContentSource: types.SourceText,
		ContentMode:   types.ModeStandard,
	}
}

// clone returns a deep copy safe to hand to readers.
func (s *Session) clone() Session {
	out := *s
	out.GeneratedPersonas = clonePersonas(s.GeneratedPersonas)
	out.SelectedPersonas = clonePersonas(s.SelectedPersonas)

	if s.InterviewResults != nil {
		out.InterviewResults = make([]types.InterviewResult, len(s.InterviewResults))
		for i, r := range s.InterviewResults {
			out.InterviewResults[i] = cloneResult(r)
		}
	}

	if s.FinalReport != nil {
		rep := *s.FinalReport
		if s.FinalReport.GoNoGo != nil {
			gng := *s.FinalReport.GoNoGo
			rep.GoNoGo = &gng
		}
		out.FinalReport = &rep
	}

	return out
}

func clonePersonas(in []types.Persona) []types.Persona {
	if in == nil {
		return nil
	}
	out := make([]types.Persona, len(in))
	for i, p := range in {
		out[i] = p
		out[i].PainPoints = append([]string(nil), p.PainPoints...)
	}
	return out
}

func cloneResult(r types.InterviewResult) types.InterviewResult {
	r.Strengths = append([]string(nil), r.Strengths...)
	r.ConfusionPoints = append([]string(nil), r.ConfusionPoints...)
	r.Suggestions = append([]string(nil), r.Suggestions...)
	return r
}
