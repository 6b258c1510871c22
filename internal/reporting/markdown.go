package reporting

import (
	"fmt"
	"strings"
	"time"

	"scenario-shock-lab/internal/domain"
)

// RenderMarkdown renders a grid as a Markdown table.
func RenderMarkdown(g *Grid) string {
	var sb strings.Builder

	if g.Title != "" {
		sb.WriteString(fmt.Sprintf("## %s\n\n", g.Title))
	}

	sb.WriteString("|")
	for _, h := range g.Header {
		sb.WriteString(fmt.Sprintf(" %s |", mdCell(h)))
	}
	sb.WriteString("\n|")
	for range g.Header {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, row := range g.Rows {
		sb.WriteString("|")
		for i := range g.Header {
			cell := ""
			if i < len(row.Cells) {
				cell = mdCell(row.Cells[i])
			}
			if row.Bold && cell != "" {
				cell = "**" + cell + "**"
			}
			sb.WriteString(fmt.Sprintf(" %s |", cell))
		}
		sb.WriteString("\n")
	}

	if g.Caption != "" {
		sb.WriteString(fmt.Sprintf("\n_%s_\n", g.Caption))
	}
	return sb.String()
}

// Markdown table cells cannot hold raw newlines or pipes.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

// RenderRunReport renders a run summary as Markdown.
func RenderRunReport(r *RunReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Run Report: %s\n\n", r.Vintage))
	sb.WriteString(fmt.Sprintf("Run ID: `%s`\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	status := "OK"
	if !r.Succeeded() {
		status = "FAILED"
	} else if len(r.FactorErrors) > 0 {
		status = "COMPLETED WITH FACTOR ERRORS"
	}
	sb.WriteString(fmt.Sprintf("Status: **%s**\n\n", status))

	// Steps
	sb.WriteString("## Steps\n\n")
	if len(r.Steps) > 0 {
		sb.WriteString("| Step | Status | Duration | Detail |\n")
		sb.WriteString("|------|--------|----------|--------|\n")
		for _, s := range r.Steps {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				s.Name, s.Status, s.Duration.Round(time.Millisecond), mdCell(s.Detail)))
		}
	} else {
		sb.WriteString("No steps executed.\n")
	}
	sb.WriteString("\n")

	// Shocks
	if r.ShockCount > 0 {
		sb.WriteString(fmt.Sprintf("Computed shocks: %d\n\n", r.ShockCount))
	}

	// Factor errors
	sb.WriteString("## Factor Errors\n\n")
	if len(r.FactorErrors) > 0 {
		sb.WriteString("| Factor | Metric | Error |\n")
		sb.WriteString("|--------|--------|-------|\n")
		for _, fe := range r.FactorErrors {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", fe.FactorID, fe.Metric, mdCell(fe.Err.Error())))
		}
	} else {
		sb.WriteString("None.\n")
	}
	sb.WriteString("\n")

	// Artifacts
	if len(r.Artifacts) > 0 {
		sb.WriteString("## Artifacts\n\n")
		for _, a := range r.Artifacts {
			sb.WriteString(fmt.Sprintf("- `%s`\n", a))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FactorErrorLines formats factor errors for logs and summaries.
func FactorErrorLines(errs []*domain.FactorError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
