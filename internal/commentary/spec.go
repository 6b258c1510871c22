package commentary

import (
	"scenario-shock-lab/internal/config"
)

// Bullet kinds of the key commentary.
const (
	BulletComputed = "computed"
	BulletManual   = "manual"
)

// KeyCommentarySpec is the key_commentary document.
type KeyCommentarySpec struct {
	Title      string     `yaml:"title" json:"title"`
	Categories []Category `yaml:"categories" json:"categories" validate:"dive"`
}

// Category is a titled group of bullets.
type Category struct {
	Name    string   `yaml:"name" json:"name" validate:"required"`
	Bullets []Bullet `yaml:"bullets" json:"bullets" validate:"dive"`
}

// Bullet is computed from Template, or copied from Text when manual.
type Bullet struct {
	Type     string `yaml:"type" json:"type" validate:"omitempty,oneof=computed manual"`
	Template string `yaml:"template" json:"template"`
	Text     string `yaml:"text" json:"text"`
}

// SummarySpec is the summary document.
type SummarySpec struct {
	Title              string    `yaml:"title" json:"title"`
	ReleaseDate        string    `yaml:"release_date" json:"release_date"`
	ScenarioYear       string    `yaml:"scenario_year" json:"scenario_year"`
	ShowComputedMarker bool      `yaml:"show_computed_marker" json:"show_computed_marker"`
	Sections           []Section `yaml:"sections" json:"sections" validate:"dive"`
}

// Section is a titled block of the summary.
type Section struct {
	Name        string          `yaml:"name" json:"name" validate:"required"`
	Description string          `yaml:"description" json:"description"`
	Bullets     []SummaryBullet `yaml:"bullets" json:"bullets"`
	Footnote    string          `yaml:"footnote" json:"footnote"`
}

// SummaryBullet is rendered from Template when set, else Text is used.
type SummaryBullet struct {
	Template string `yaml:"template" json:"template"`
	Text     string `yaml:"text" json:"text"`
}

// TimelineSpec is the timeline document.
type TimelineSpec struct {
	Title        string      `yaml:"title" json:"title"`
	IntroBullets []string    `yaml:"intro_bullets" json:"intro_bullets"`
	ReleaseDate  string      `yaml:"release_date" json:"release_date" validate:"required"`
	Milestones   []Milestone `yaml:"milestones" json:"milestones" validate:"dive"`
}

// Milestone is dated relative to the release date, which is day 0.
type Milestone struct {
	DayOffset   int    `yaml:"day_offset" json:"day_offset"`
	Description string `yaml:"description" json:"description" validate:"required"`
}

func LoadKeyCommentarySpec(path string) (*KeyCommentarySpec, error) {
	var s KeyCommentarySpec
	if err := config.DecodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadSummarySpec(path string) (*SummarySpec, error) {
	var s SummarySpec
	if err := config.DecodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadTimelineSpec(path string) (*TimelineSpec, error) {
	var s TimelineSpec
	if err := config.DecodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
