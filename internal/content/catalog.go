// Package content loads the lesson, quiz and comparison text shown by the
// site from an embedded YAML catalog.
package content

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vytor/loginlab/internal/lesson"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Quiz struct {
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
	Correct  int      `yaml:"correct"`
}

// IsCorrect reports whether option index i is the right answer.
func (q Quiz) IsCorrect(i int) bool {
	return i == q.Correct
}

type Lesson struct {
	ID      lesson.Section `yaml:"id"`
	Title   string         `yaml:"title"`
	Heading string         `yaml:"heading"`
	Summary string         `yaml:"summary"`
	Points  []string       `yaml:"points"`
	Quiz    Quiz           `yaml:"quiz"`
}

// SecurityFeature is one entry of the safe demo's feature accordion.
type SecurityFeature struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Code        string `yaml:"code"`
}

type Implementation struct {
	Description string   `yaml:"description"`
	Code        string   `yaml:"code"`
	Points      []string `yaml:"points"`
}

// CompareFeature contrasts a safe and an unsafe implementation.
type CompareFeature struct {
	ID     string         `yaml:"id"`
	Title  string         `yaml:"title"`
	Safe   Implementation `yaml:"safe"`
	Unsafe Implementation `yaml:"unsafe"`
}

type TimelineItem struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// Catalog is all text content of the site.
type Catalog struct {
	Lessons          []Lesson          `yaml:"lessons"`
	SecurityFeatures []SecurityFeature `yaml:"security_features"`
	CompareFeatures  []CompareFeature  `yaml:"compare_features"`
	Learned          []TimelineItem    `yaml:"learned"`
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalog and checks it against the fixed lesson order.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	var errs []string

	sections := lesson.Sections()
	if len(c.Lessons) != len(sections) {
		errs = append(errs, fmt.Sprintf("expected %d lessons, got %d", len(sections), len(c.Lessons)))
	}
	for i, l := range c.Lessons {
		if i < len(sections) && l.ID != sections[i] {
			errs = append(errs, fmt.Sprintf("lesson %d: expected id %q, got %q", i, sections[i], l.ID))
		}
		if l.Title != l.ID.Title() {
			errs = append(errs, fmt.Sprintf("lesson %s: title %q does not match %q", l.ID, l.Title, l.ID.Title()))
		}
		if len(l.Quiz.Options) < 2 {
			errs = append(errs, fmt.Sprintf("lesson %s: quiz needs at least 2 options", l.ID))
		}
		if l.Quiz.Correct < 0 || l.Quiz.Correct >= len(l.Quiz.Options) {
			errs = append(errs, fmt.Sprintf("lesson %s: correct answer %d out of range", l.ID, l.Quiz.Correct))
		}
	}

	seen := make(map[string]bool)
	for _, f := range c.SecurityFeatures {
		if seen[f.ID] {
			errs = append(errs, fmt.Sprintf("duplicate security feature %q", f.ID))
		}
		seen[f.ID] = true
	}

	seen = make(map[string]bool)
	for _, f := range c.CompareFeatures {
		if seen[f.ID] {
			errs = append(errs, fmt.Sprintf("duplicate compare feature %q", f.ID))
		}
		seen[f.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Lesson returns the lesson for id.
func (c *Catalog) Lesson(id lesson.Section) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// SecurityFeature returns the safe demo feature with the given id.
func (c *Catalog) SecurityFeature(id string) (SecurityFeature, bool) {
	for _, f := range c.SecurityFeatures {
		if f.ID == id {
			return f, true
		}
	}
	return SecurityFeature{}, false
}
