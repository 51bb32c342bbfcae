package api

import (
	"net/http"

	"github.com/vytor/loginlab/internal/errors"
	"github.com/vytor/loginlab/internal/lesson"
	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/session"
)

const learnPath = "/learn"

type lessonTab struct {
	ID        lesson.Section
	Title     string
	Active    bool
	Completed bool
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	v := pageView(s, r, s.mountLearn)
	tr := v.Tracker
	active := tr.ActiveSection()

	tabs := make([]lessonTab, 0, len(s.Catalog.Lessons))
	for _, l := range s.Catalog.Lessons {
		tabs = append(tabs, lessonTab{
			ID:        l.ID,
			Title:     l.Title,
			Active:    l.ID == active,
			Completed: tr.IsCompleted(l.ID),
		})
	}

	data := pageData{
		"title":            "Learn",
		"viewID":           v.ID(),
		"tabs":             tabs,
		"progress":         tr.Progress(),
		"completed":        tr.CompletedCount(),
		"total":            len(s.Catalog.Lessons),
		"quiz":             v.Quiz(),
		"sectionCompleted": tr.IsCompleted(active),
		"quizCompleted":    tr.QuizCompleted(active),
		"displayMS":        s.displayMS(),
	}
	if l, ok := s.Catalog.Lesson(active); ok {
		data["lesson"] = l
	}
	if title, ok := tr.Achievement(); ok {
		data["achievement"] = title
	}
	s.render(w, r, "pages/learn.html", data)
}

func (s *Server) handleLearnTab(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.LearnView](s, w, r, learnPath)
	if !ok {
		return
	}
	section, ok := lesson.ParseSection(r.FormValue("section"))
	if !ok {
		handleError(w, r, errors.NewValidationError("section", "unknown lesson"))
		return
	}
	v.SelectTab(section)
	redirectToView(w, r, learnPath, v)
}

func (s *Server) handleLearnComplete(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.LearnView](s, w, r, learnPath)
	if !ok {
		return
	}
	section := v.Tracker.ActiveSection()
	if raw := r.FormValue("section"); raw != "" {
		if section, ok = lesson.ParseSection(raw); !ok {
			handleError(w, r, errors.NewValidationError("section", "unknown lesson"))
			return
		}
	}
	if v.Tracker.CompleteSection(section) {
		logger.FromContext(r.Context()).Info("section %s completed", section)
	}
	redirectToView(w, r, learnPath, v)
}

func (s *Server) handleLearnQuizOpen(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.LearnView](s, w, r, learnPath)
	if !ok {
		return
	}
	v.OpenQuiz()
	redirectToView(w, r, learnPath, v)
}

func (s *Server) handleLearnQuizAnswer(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.LearnView](s, w, r, learnPath)
	if !ok {
		return
	}
	log := logger.FromContext(r.Context())

	option, err := formInt(r, "option")
	if err != nil {
		handleError(w, r, err)
		return
	}

	active := v.Tracker.ActiveSection()
	l, ok := s.Catalog.Lesson(active)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("lesson", active))
		return
	}
	if option < 0 || option >= len(l.Quiz.Options) {
		handleError(w, r, errors.NewValidationError("option", "out of range"))
		return
	}

	correct := l.Quiz.IsCorrect(option)
	if v.AnswerQuiz(option, correct) {
		log.WithField("correct", correct).Debug("quiz answered for %s", active)
	}
	redirectToView(w, r, learnPath, v)
}

func (s *Server) handleLearnNext(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.LearnView](s, w, r, learnPath)
	if !ok {
		return
	}
	next := v.ContinueToNext()
	logger.FromContext(r.Context()).Debug("advanced to %s", next)
	redirectToView(w, r, learnPath, v)
}

func (s *Server) handleLearnAchievementDismiss(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.LearnView](s, w, r, learnPath)
	if !ok {
		return
	}
	v.Tracker.DismissAchievement()
	redirectToView(w, r, learnPath, v)
}
