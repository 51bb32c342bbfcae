package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/loginlab/internal/demo"
	"github.com/vytor/loginlab/internal/lesson"
	"github.com/vytor/loginlab/internal/session"
	"github.com/vytor/loginlab/internal/testutil"
)

func TestLearnView_QuizFlow(t *testing.T) {
	v := session.NewLearnView("v", lesson.Options{AfterFunc: (&testutil.ManualTimers{}).AfterFunc})
	t.Cleanup(v.Close)

	assert.False(t, v.AnswerQuiz(1, true), "a closed quiz takes no answers")

	v.OpenQuiz()
	require.True(t, v.AnswerQuiz(0, false))
	assert.False(t, v.AnswerQuiz(1, true), "one answer per attempt")
	assert.False(t, v.Tracker.IsCompleted(lesson.Intro))

	q := v.Quiz()
	assert.True(t, q.Answered)
	assert.Equal(t, 0, q.Chosen)
	assert.False(t, q.Correct)

	v.OpenQuiz()
	require.True(t, v.AnswerQuiz(1, true))
	assert.True(t, v.Tracker.QuizCompleted(lesson.Intro))
	assert.True(t, v.Tracker.IsCompleted(lesson.Intro))

	assert.Equal(t, lesson.History, v.ContinueToNext())
	assert.Equal(t, session.QuizState{}, v.Quiz())
}

func TestLearnView_SelectTab(t *testing.T) {
	v := session.NewLearnView("v", lesson.Options{})
	t.Cleanup(v.Close)
	v.OpenQuiz()

	assert.True(t, v.SelectTab(lesson.Psychology))
	assert.Equal(t, lesson.Psychology, v.Tracker.ActiveSection())
	assert.False(t, v.Quiz().Open)

	assert.False(t, v.SelectTab("unknown"))
	assert.Equal(t, lesson.Psychology, v.Tracker.ActiveSection())
}

func TestSafeLoginView_CSRF(t *testing.T) {
	v := session.NewSafeLoginView("v", time.Second, nil)
	t.Cleanup(v.Close)

	assert.Len(t, v.CSRFToken(), 64)
	assert.True(t, v.ValidCSRF(v.CSRFToken()))
	assert.False(t, v.ValidCSRF(""))
	assert.False(t, v.ValidCSRF(session.NewCSRFToken()))

	other := session.NewSafeLoginView("w", time.Second, nil)
	t.Cleanup(other.Close)
	assert.NotEqual(t, v.CSRFToken(), other.CSRFToken())
}

func TestSafeLoginView_HighlightMarksSeen(t *testing.T) {
	timers := &testutil.ManualTimers{}
	v := session.NewSafeLoginView("v", 3*time.Second, timers.AfterFunc)
	t.Cleanup(v.Close)

	v.Highlight("rate-limiting")

	lit, ok := v.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "rate-limiting", lit)
	assert.True(t, v.Seen("rate-limiting"))

	timers.FireAll()
	_, ok = v.Highlighted()
	assert.False(t, ok)
	assert.True(t, v.Seen("rate-limiting"), "seen badges outlive the highlight")
	assert.Equal(t, 1, v.SeenCount())
}

func TestUnsafeLoginView_XSSOpensModal(t *testing.T) {
	v := session.NewUnsafeLoginView("v")

	v.ApplyResult(demo.Result{Outcome: demo.UserNotFound, Message: "User not found: x"})
	_, ok := v.Result()
	require.True(t, ok)

	v.ApplyResult(demo.Result{Outcome: demo.XSSTriggered})
	assert.True(t, v.XSSModalOpen())
	_, ok = v.Result()
	assert.False(t, ok)

	v.DismissXSSModal()
	assert.False(t, v.XSSModalOpen())
}
