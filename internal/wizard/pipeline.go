package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/erin/vibecheck/internal/interview"
	"github.com/erin/vibecheck/internal/llm"
	"github.com/erin/vibecheck/internal/report"
	"github.com/erin/vibecheck/internal/types"
)

// interviewCeiling is the progress value reached once every interview has
// been attempted. The remaining points belong to report synthesis.
const interviewCeiling = 82.0

// ProgressEvent describes one observable moment of an analysis run.
type ProgressEvent struct {
	Kind        string  `json:"kind"`
	Message     string  `json:"message"`
	Percent     float64 `json:"percent"`
	PersonaID   string  `json:"persona_id,omitempty"`
	PersonaName string  `json:"persona_name,omitempty"`
}

// Event kinds emitted by RunAnalysis.
const (
	EventInterviewing    = "interviewing"
	EventInterviewDone   = "interview_done"
	EventInterviewFailed = "interview_failed"
	EventSynthesizing    = "synthesizing"
	EventComplete        = "complete"
)

// ProgressFunc receives pipeline progress. Nil is allowed.
type ProgressFunc func(ProgressEvent)

// RunAnalysis interviews every selected persona in selection order, then
// synthesizes the surviving results into the final report. Individual
// interview failures are reported and skipped; the run only fails outright
// when no interview succeeds or synthesis itself fails. Blocks until the
// run finishes.
func (c *Controller) RunAnalysis(ctx context.Context, onProgress ProgressFunc) error {
	if onProgress == nil {
		onProgress = func(ProgressEvent) {}
	}

	c.mu.Lock()
	if c.session.IsAnalyzing {
		c.mu.Unlock()
		return &GuardError{Requirement: "an analysis is already running"}
	}
	apiKey := c.credentials.Get()
	if len(c.session.SelectedPersonas) == 0 {
		c.mu.Unlock()
		return &GuardError{Requirement: "at least one persona must be selected"}
	}
	if c.session.Content == "" {
		c.mu.Unlock()
		return &GuardError{Requirement: "content must be set before running analysis"}
	}
	if apiKey == "" {
		c.mu.Unlock()
		return &GuardError{Requirement: "an API key must be stored before running analysis"}
	}
	c.session.IsAnalyzing = true
	c.session.CurrentStep = StepAnalysis
	c.session.InterviewResults = nil
	c.session.FinalReport = nil
	selected := clonePersonas(c.session.SelectedPersonas)
	content := c.session.Content
	mode := c.session.ContentMode
	epoch := c.epoch
	c.mu.Unlock()

	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		c.finishAnalysis(epoch, func(s *Session) {})
		return &PipelineError{Message: "failed to create LLM client", Cause: err}
	}
	defer client.Close()

	total := len(selected)
	var results []types.InterviewResult

	for i, p := range selected {
		if err := ctx.Err(); err != nil {
			c.finishAnalysis(epoch, func(s *Session) {})
			return &PipelineError{Message: "analysis canceled", Cause: err}
		}

		onProgress(ProgressEvent{
			Kind:        EventInterviewing,
			Message:     fmt.Sprintf("Interviewing %s...", p.Name),
			Percent:     float64(i) / float64(total) * interviewCeiling,
			PersonaID:   p.ID,
			PersonaName: p.Name,
		})

		result, simErr := c.simulateOne(ctx, client, content, p, mode)
		percent := float64(i+1) / float64(total) * interviewCeiling

		if simErr != nil {
			onProgress(ProgressEvent{
				Kind:        EventInterviewFailed,
				Message:     fmt.Sprintf("Interview with %s failed: %v", p.Name, simErr),
				Percent:     percent,
				PersonaID:   p.ID,
				PersonaName: p.Name,
			})
			continue
		}

		results = append(results, *result)
		c.mu.Lock()
		if c.epoch == epoch {
			c.session.InterviewResults = append(c.session.InterviewResults, cloneResult(*result))
		}
		c.mu.Unlock()

		onProgress(ProgressEvent{
			Kind:        EventInterviewDone,
			Message:     fmt.Sprintf("Interview with %s complete", p.Name),
			Percent:     percent,
			PersonaID:   p.ID,
			PersonaName: p.Name,
		})
	}

	if len(results) == 0 {
		c.finishAnalysis(epoch, func(s *Session) {
			s.CurrentStep = StepPersonaSelection
		})
		return &PipelineError{Message: "all interviews failed"}
	}

	onProgress(ProgressEvent{
		Kind:    EventSynthesizing,
		Message: "Synthesizing report...",
		Percent: interviewCeiling,
	})

	rep, synthErr := c.synthesize(ctx, client, results, mode)
	if synthErr != nil {
		// Interview results stay in the session so the caller can retry
		// synthesis by re-running, or navigate away manually.
		c.finishAnalysis(epoch, func(s *Session) {})
		return &PipelineError{Message: "report synthesis failed", Cause: synthErr}
	}

	onProgress(ProgressEvent{
		Kind:    EventComplete,
		Message: "Analysis complete",
		Percent: 100,
	})

	if c.displayDelay > 0 {
		select {
		case <-time.After(c.displayDelay):
		case <-ctx.Done():
		}
	}

	c.finishAnalysis(epoch, func(s *Session) {
		s.FinalReport = rep
		s.CurrentStep = StepReport
	})
	return nil
}

// finishAnalysis clears the analyzing flag and, if the session has not
// been replaced since the run started, applies the final mutation.
func (c *Controller) finishAnalysis(epoch uint64, apply func(*Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.IsAnalyzing = false
	if c.epoch == epoch {
		apply(c.session)
	}
}

func (c *Controller) simulateOne(ctx context.Context, client llm.Client, content string, p types.Persona, mode types.ContentMode) (*types.InterviewResult, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	return interview.Simulate(callCtx, client, content, p, mode)
}

func (c *Controller) synthesize(ctx context.Context, client llm.Client, results []types.InterviewResult, mode types.ContentMode) (*types.Report, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	return report.Synthesize(callCtx, client, results, mode)
}
