// Package commentary renders the Markdown narrative of a vintage: key
// factor commentary, the summary page and the timeline.
package commentary

import (
	"fmt"
	"strings"
	"time"

	"scenario-shock-lab/internal/domain"
)

// Output artifact names.
const (
	KeyCommentaryName = "key_commentary.md"
	SummaryName       = "summary.md"
	TimelineName      = "timeline.md"
)

const (
	releaseLayout   = "2006-01-02"
	milestoneLayout = "Monday, January 2"
)

// BuildKeyCommentary renders categories of computed and manual bullets,
// each tagged with its marker.
func BuildKeyCommentary(spec *KeyCommentarySpec, v *Values) (string, []*domain.FactorError) {
	var (
		sb   strings.Builder
		errs []*domain.FactorError
	)

	title := spec.Title
	if title == "" {
		title = "Key Factor Shocks"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	sb.WriteString("> **Legend**: `[computed]` = auto-generated from data, `[manual]` = human-authored (preserved on regeneration)\n\n")

	for _, c := range spec.Categories {
		fmt.Fprintf(&sb, "## %s\n\n", c.Name)
		for _, b := range c.Bullets {
			text, marker := b.Text, ManualMarker
			if b.Type == BulletComputed {
				var bulletErrs []*domain.FactorError
				text, bulletErrs = v.Render(b.Template, false)
				errs = append(errs, bulletErrs...)
				marker = ComputedMarker
			}
			fmt.Fprintf(&sb, "- %s  %s\n", text, marker)
		}
		sb.WriteString("\n")
	}
	return sb.String(), errs
}

// BuildSummary renders the summary page. Placeholders carry the computed
// marker only when ShowComputedMarker is set.
func BuildSummary(spec *SummarySpec, v *Values) (string, []*domain.FactorError) {
	var (
		sb   strings.Builder
		errs []*domain.FactorError
	)

	title := spec.Title
	if title == "" {
		title = "Summary"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "On %s, the FRB released the CCAR %s Supervisory scenarios.\n\n", spec.ReleaseDate, spec.ScenarioYear)

	for _, s := range spec.Sections {
		fmt.Fprintf(&sb, "## %s\n\n", s.Name)
		if s.Description != "" {
			fmt.Fprintf(&sb, "*%s*\n\n", s.Description)
		}
		for _, b := range s.Bullets {
			text := b.Text
			if b.Template != "" {
				var bulletErrs []*domain.FactorError
				text, bulletErrs = v.Render(b.Template, spec.ShowComputedMarker)
				errs = append(errs, bulletErrs...)
			}
			fmt.Fprintf(&sb, "- %s\n", text)
		}
		if s.Footnote != "" {
			fmt.Fprintf(&sb, "\n> %s\n", s.Footnote)
		}
		sb.WriteString("\n")
	}
	return sb.String(), errs
}

// BuildTimeline renders numbered milestones. Each {date} in a description
// becomes the release date plus the milestone's day offset.
func BuildTimeline(spec *TimelineSpec) (string, error) {
	release, err := time.Parse(releaseLayout, spec.ReleaseDate)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, spec.ReleaseDate)
	}

	var sb strings.Builder
	title := spec.Title
	if title == "" {
		title = "Timeline"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	for _, b := range spec.IntroBullets {
		fmt.Fprintf(&sb, "- %s\n", b)
	}
	sb.WriteString("\n")

	for i, m := range spec.Milestones {
		date := release.AddDate(0, 0, m.DayOffset).Format(milestoneLayout)
		fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.ReplaceAll(m.Description, "{date}", date))
	}
	sb.WriteString("\n")
	return sb.String(), nil
}
