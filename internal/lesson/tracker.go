// Package lesson tracks progress through the five lesson sections of the
// learning module: completed sections, answered quizzes, the active tab and
// the achievement notification shown when something is completed.
package lesson

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/vytor/loginlab/internal/notify"
)

// Section identifies one lesson topic.
type Section string

const (
	Intro         Section = "intro"
	History       Section = "history"
	Attacks       Section = "attacks"
	BestPractices Section = "best-practices"
	Psychology    Section = "psychology"
)

var sections = []Section{Intro, History, Attacks, BestPractices, Psychology}

var sectionTitles = map[Section]string{
	Intro:         "Introduction",
	History:       "Historical Context",
	Attacks:       "Attack Types",
	BestPractices: "Best Practices",
	Psychology:    "Psychological Aspects",
}

// CompleteTitle is the achievement shown once every section is completed.
const CompleteTitle = "Learning module 100% complete!"

// Sections returns the fixed section order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// ParseSection returns the section named by s.
func ParseSection(s string) (Section, bool) {
	for _, sec := range sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

// Title is the human readable name of a section.
func (s Section) Title() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return "New section"
}

// AchievementKind distinguishes per-section from whole-module achievements.
type AchievementKind string

const (
	SectionAchievement  AchievementKind = "section"
	CompleteAchievement AchievementKind = "complete"
)

// Achievement is one emitted notification.
type Achievement struct {
	Kind    AchievementKind
	Section Section
	Title   string
}

// SectionCompletedTitle is the achievement title for a finished section.
func SectionCompletedTitle(s Section) string {
	return fmt.Sprintf("Section completed: %s", s.Title())
}

// Options configure a Tracker.
type Options struct {
	// Display is how long an achievement stays visible.
	Display time.Duration
	// AfterFunc schedules the auto-dismiss. Nil uses the runtime timer.
	AfterFunc notify.AfterFunc
	// OnAchievement observes every achievement, including one that is
	// overwritten in the same call.
	OnAchievement func(Achievement)
}

// Tracker is the progress state of one lesson-browser mount.
type Tracker struct {
	mu            sync.Mutex
	completed     map[Section]bool
	quizzes       map[Section]bool
	active        Section
	allAnnounced  bool
	achievement   *notify.Slot
	onAchievement func(Achievement)
}

// NewTracker returns a tracker with nothing completed and the first section active.
func NewTracker(opts Options) *Tracker {
	return &Tracker{
		completed:     make(map[Section]bool, len(sections)),
		quizzes:       make(map[Section]bool, len(sections)),
		active:        sections[0],
		achievement:   notify.NewSlot(opts.Display, opts.AfterFunc),
		onAchievement: opts.OnAchievement,
	}
}

// CompleteSection marks id completed. Unknown ids and repeats are ignored.
// It reports whether the section was newly completed.
func (t *Tracker) CompleteSection(id Section) bool {
	t.mu.Lock()
	emitted, added := t.completeLocked(id)
	t.mu.Unlock()

	t.emit(emitted)
	return added
}

func (t *Tracker) completeLocked(id Section) ([]Achievement, bool) {
	if _, ok := sectionTitles[id]; !ok || t.completed[id] {
		return nil, false
	}
	t.completed[id] = true

	emitted := []Achievement{{Kind: SectionAchievement, Section: id, Title: SectionCompletedTitle(id)}}
	t.achievement.Show(emitted[0].Title)

	// The module-complete popup replaces the section popup in the same call.
	if len(t.completed) == len(sections) && !t.allAnnounced {
		t.allAnnounced = true
		done := Achievement{Kind: CompleteAchievement, Title: CompleteTitle}
		t.achievement.Show(done.Title)
		emitted = append(emitted, done)
	}
	return emitted, true
}

// RecordQuizAnswer records a quiz result. Wrong answers change nothing.
func (t *Tracker) RecordQuizAnswer(id Section, correct bool) bool {
	if !correct {
		return false
	}

	t.mu.Lock()
	if _, ok := sectionTitles[id]; !ok {
		t.mu.Unlock()
		return false
	}
	t.quizzes[id] = true
	emitted, added := t.completeLocked(id)
	t.mu.Unlock()

	t.emit(emitted)
	return added
}

// AdvanceToNextSection activates the following section, wrapping to the first.
func (t *Tracker) AdvanceToNextSection() Section {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range sections {
		if s == t.active {
			t.active = sections[(i+1)%len(sections)]
			break
		}
	}
	return t.active
}

// SetActiveSection jumps to id if it is a known section.
func (t *Tracker) SetActiveSection(id Section) bool {
	if _, ok := sectionTitles[id]; !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = id
	return true
}

// DismissAchievement clears the pending achievement.
func (t *Tracker) DismissAchievement() {
	t.achievement.Dismiss()
}

// Achievement returns the pending achievement title, if any.
func (t *Tracker) Achievement() (string, bool) {
	return t.achievement.Current()
}

// Progress is round(100 * completed / total).
func (t *Tracker) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(math.Round(100 * float64(len(t.completed)) / float64(len(sections))))
}

// ActiveSection returns the current tab.
func (t *Tracker) ActiveSection() Section {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// IsCompleted reports whether id has been completed.
func (t *Tracker) IsCompleted(id Section) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed[id]
}

// QuizCompleted reports whether the quiz for id was answered correctly.
func (t *Tracker) QuizCompleted(id Section) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quizzes[id]
}

// CompletedCount is the number of completed sections.
func (t *Tracker) CompletedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.completed)
}

// Close cancels the pending auto-dismiss. The tracker must not be used afterwards.
func (t *Tracker) Close() {
	t.achievement.Close()
}

func (t *Tracker) emit(achievements []Achievement) {
	if t.onAchievement == nil {
		return
	}
	for _, a := range achievements {
		t.onAchievement(a)
	}
}
