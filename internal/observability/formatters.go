// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/erin/vibecheck/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPersonas outputs the generated persona slate.
func (p *Printer) PrintPersonas(personas []types.Persona) {
	if len(personas) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated %d personas:\n\n", len(personas)))

	for i, persona := range personas {
		marker := "•"
		if persona.IsWildcard() {
			marker = "★"
		}
		sb.WriteString(fmt.Sprintf("%s %s - %s\n", marker, persona.Name, persona.Role))

		desc := persona.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", desc))

		if len(persona.PainPoints) > 0 {
			pains := strings.Join(persona.PainPoints, ", ")
			if len(pains) > 45 {
				pains = pains[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  [%s]\n", pains))
		}
		if i < len(personas)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PERSONA SLATE", sb.String())
}

// PrintInterviewResult outputs one completed interview.
func (p *Printer) PrintInterviewResult(result *types.InterviewResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Persona:  %s\n", result.PersonaName))

	writeSection := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString("\n")
		sb.WriteString(label + ":\n")
		count := min(len(items), maxItemsToShow)
		for i := 0; i < count; i++ {
			item := items[i]
			if len(item) > 50 {
				item = item[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", item))
		}
		if len(items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
		}
	}

	writeSection("Strengths", result.Strengths)
	writeSection("Confusion Points", result.ConfusionPoints)
	writeSection("Suggestions", result.Suggestions)

	p.printBox("INTERVIEW RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the synthesized final report.
func (p *Printer) PrintReport(report *types.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall Score:  %.1f / 10\n\n", report.OverallScore))

	sb.WriteString("Tone Analysis:\n")
	sb.WriteString(fmt.Sprintf("  Defensiveness:  %3d\n", report.ToneAnalysis.Defensiveness))
	sb.WriteString(fmt.Sprintf("  Corporatespeak: %3d\n", report.ToneAnalysis.Corporatespeak))
	sb.WriteString(fmt.Sprintf("  Empathy:        %3d\n", report.ToneAnalysis.Empathy))
	sb.WriteString(fmt.Sprintf("  Clarity:        %3d\n", report.ToneAnalysis.Clarity))

	if report.GoNoGo != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Decision: %s (confidence %d)\n", report.GoNoGo.Decision, report.GoNoGo.ConfidenceScore))
		reasoning := report.GoNoGo.Reasoning
		if len(reasoning) > 50 {
			reasoning = reasoning[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", reasoning))
	}

	if report.ExecutiveSummary != "" {
		sb.WriteString("\nSummary:\n")
		// Wrap the summary to the box width
		for _, line := range wrapText(report.ExecutiveSummary, boxWidth-6) {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}

	p.printBox("VIBE CHECK REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// wrapText breaks text into lines no longer than width, on word boundaries.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	lines = append(lines, current)
	return lines
}
