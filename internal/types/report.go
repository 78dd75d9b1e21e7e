package types

// Go/no-go decision values returned by report synthesis.
const (
	DecisionGo   = "GO"
	DecisionNoGo = "NO-GO"
	DecisionHold = "HOLD"
)

// ToneAnalysis scores four tonal dimensions of the content on a 0-100 scale.
type ToneAnalysis struct {
	Defensiveness  int `json:"defensiveness"`
	Corporatespeak int `json:"corporatespeak"`
	Empathy        int `json:"empathy"`
	Clarity        int `json:"clarity"`
}

// GoNoGo is the synthesized launch recommendation.
type GoNoGo struct {
	Decision        string `json:"decision"`
	ConfidenceScore int    `json:"confidence_score"`
	Reasoning       string `json:"reasoning"`
}

// Report is the aggregate output of report synthesis, folded from the full
// ordered interview result set. Immutable after creation.
type Report struct {
	OverallScore     float64      `json:"overall_score"`
	ToneAnalysis     ToneAnalysis `json:"tone_analysis"`
	GoNoGo           *GoNoGo      `json:"go_no_go,omitempty"`
	ExecutiveSummary string       `json:"executive_summary"`
}
