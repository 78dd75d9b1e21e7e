package types

// InterviewResult captures one simulated evaluation pass of the content by a
// single persona. Created exactly once per successful interview call and
// never mutated afterwards.
type InterviewResult struct {
	PersonaName     string   `json:"persona_name"`
	Strengths       []string `json:"strengths"`
	ConfusionPoints []string `json:"confusion_points"`
	Suggestions     []string `json:"suggestions"`
}
