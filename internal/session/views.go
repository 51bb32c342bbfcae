package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"

	"github.com/vytor/loginlab/internal/attack"
	"github.com/vytor/loginlab/internal/demo"
	"github.com/vytor/loginlab/internal/lesson"
	"github.com/vytor/loginlab/internal/notify"
)

// QuizState is the presentation state of the quiz on the active lesson.
type QuizState struct {
	Open     bool
	Answered bool
	Chosen   int
	Correct  bool
}

// LearnView is one mount of the lesson browser.
type LearnView struct {
	id      string
	Tracker *lesson.Tracker

	mu   sync.Mutex
	quiz QuizState
}

func NewLearnView(id string, opts lesson.Options) *LearnView {
	return &LearnView{id: id, Tracker: lesson.NewTracker(opts)}
}

func (v *LearnView) ID() string { return v.id }
func (v *LearnView) Kind() Kind { return KindLearn }
func (v *LearnView) Close()     { v.Tracker.Close() }

// Quiz returns the quiz state.
func (v *LearnView) Quiz() QuizState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.quiz
}

// OpenQuiz shows the quiz for the active lesson.
func (v *LearnView) OpenQuiz() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.quiz = QuizState{Open: true}
}

// AnswerQuiz records the chosen option and, when right, completes the active
// section. A quiz accepts one answer until it is reset.
func (v *LearnView) AnswerQuiz(chosen int, correct bool) bool {
	v.mu.Lock()
	if !v.quiz.Open || v.quiz.Answered {
		v.mu.Unlock()
		return false
	}
	v.quiz.Answered = true
	v.quiz.Chosen = chosen
	v.quiz.Correct = correct
	v.mu.Unlock()

	v.Tracker.RecordQuizAnswer(v.Tracker.ActiveSection(), correct)
	return true
}

// ResetQuiz closes the quiz and re-enables answering.
func (v *LearnView) ResetQuiz() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.quiz = QuizState{}
}

// ContinueToNext closes the quiz and moves to the following lesson.
func (v *LearnView) ContinueToNext() lesson.Section {
	v.ResetQuiz()
	return v.Tracker.AdvanceToNextSection()
}

// SelectTab jumps to a lesson and resets the quiz.
func (v *LearnView) SelectTab(id lesson.Section) bool {
	if !v.Tracker.SetActiveSection(id) {
		return false
	}
	v.ResetQuiz()
	return true
}

// NewCSRFToken returns 32 random bytes, hex encoded.
func NewCSRFToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("session: read csrf token: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// SafeLoginView is one mount of the safe login demo.
type SafeLoginView struct {
	id        string
	csrfToken string
	highlight *notify.Slot

	mu       sync.Mutex
	username string
	result   *demo.Result
	seen     map[string]bool
}

// NewSafeLoginView creates a view with a fresh CSRF token. display and
// afterFn control how long a highlighted feature stays lit.
func NewSafeLoginView(id string, display time.Duration, afterFn notify.AfterFunc) *SafeLoginView {
	return &SafeLoginView{
		id:        id,
		csrfToken: NewCSRFToken(),
		highlight: notify.NewSlot(display, afterFn),
		seen:      make(map[string]bool),
	}
}

func (v *SafeLoginView) ID() string { return v.id }
func (v *SafeLoginView) Kind() Kind { return KindSafeLogin }
func (v *SafeLoginView) Close()     { v.highlight.Close() }

func (v *SafeLoginView) CSRFToken() string { return v.csrfToken }

// ValidCSRF compares token with the view's token in constant time.
func (v *SafeLoginView) ValidCSRF(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(v.csrfToken)) == 1
}

func (v *SafeLoginView) SetUsername(u string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.username = u
}

func (v *SafeLoginView) Username() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.username
}

// SetResult stores the outcome of the last submit.
func (v *SafeLoginView) SetResult(r demo.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = &r
}

// ClearResult removes any shown message.
func (v *SafeLoginView) ClearResult() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = nil
}

func (v *SafeLoginView) Result() (demo.Result, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.result == nil {
		return demo.Result{}, false
	}
	return *v.result, true
}

// Highlight lights up a security feature for the display duration and marks
// it as seen.
func (v *SafeLoginView) Highlight(feature string) {
	v.highlight.Show(feature)
	v.MarkSeen(feature)
}

// Highlighted returns the currently lit feature.
func (v *SafeLoginView) Highlighted() (string, bool) {
	return v.highlight.Current()
}

func (v *SafeLoginView) DismissHighlight() {
	v.highlight.Dismiss()
}

func (v *SafeLoginView) MarkSeen(feature string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seen[feature] = true
}

func (v *SafeLoginView) Seen(feature string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.seen[feature]
}

// SeenCount is the number of distinct features seen.
func (v *SafeLoginView) SeenCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

// UnsafeLoginView is one mount of the unsafe login demo.
type UnsafeLoginView struct {
	id          string
	Walkthrough *attack.Controller

	mu       sync.Mutex
	result   *demo.Result
	xssModal bool
}

func NewUnsafeLoginView(id string) *UnsafeLoginView {
	return &UnsafeLoginView{id: id, Walkthrough: attack.NewController()}
}

func (v *UnsafeLoginView) ID() string { return v.id }
func (v *UnsafeLoginView) Kind() Kind { return KindUnsafeLogin }
func (v *UnsafeLoginView) Close()     {}

// ApplyResult records a submit. An XSS payload opens the disclosure modal
// instead of showing a message.
func (v *UnsafeLoginView) ApplyResult(r demo.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if r.Outcome == demo.XSSTriggered {
		v.xssModal = true
		v.result = nil
		return
	}
	v.result = &r
}

func (v *UnsafeLoginView) Result() (demo.Result, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.result == nil {
		return demo.Result{}, false
	}
	return *v.result, true
}

func (v *UnsafeLoginView) XSSModalOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.xssModal
}

func (v *UnsafeLoginView) DismissXSSModal() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.xssModal = false
}
