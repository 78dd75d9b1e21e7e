package types

// ContentMode alters the severity of every prompt sent to the LLM.
type ContentMode string

const (
	// ModeStandard casts a balanced review panel.
	ModeStandard ContentMode = "standard"
	// ModeCrisis biases personas and interviews toward hostile, adversarial framing.
	ModeCrisis ContentMode = "crisis"
)

// Valid reports whether the mode is one of the known values.
func (m ContentMode) Valid() bool {
	return m == ModeStandard || m == ModeCrisis
}

// ContentSource records where the content text came from. It is a
// provenance tag for display; the core only ever sees the final string.
type ContentSource string

const (
	SourceText    ContentSource = "text"
	SourceYouTube ContentSource = "youtube"
	SourceFile    ContentSource = "file"
)
