package api

import (
	"net/http"

	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/session"
)

const safeLoginPath = "/login-safe"

type featureCard struct {
	ID          string
	Title       string
	Description string
	Code        string
	Seen        bool
	Highlighted bool
}

func (s *Server) handleLoginSafe(w http.ResponseWriter, r *http.Request) {
	v := pageView(s, r, s.mountSafeLogin)

	attempts, err := s.SafeLoginService.Attempts(r.Context(), v.ID())
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit := s.SafeLoginService.Limit()

	highlighted, lit := v.Highlighted()
	features := make([]featureCard, 0, len(s.Catalog.SecurityFeatures))
	for _, f := range s.Catalog.SecurityFeatures {
		features = append(features, featureCard{
			ID:          f.ID,
			Title:       f.Title,
			Description: f.Description,
			Code:        f.Code,
			Seen:        v.Seen(f.ID),
			Highlighted: lit && f.ID == highlighted,
		})
	}

	percent := 100
	if attempts < limit {
		percent = attempts * 100 / limit
	}

	data := pageData{
		"title":           "Safe login",
		"viewID":          v.ID(),
		"csrfToken":       v.CSRFToken(),
		"username":        v.Username(),
		"attempts":        attempts,
		"limit":           limit,
		"attemptsPercent": percent,
		"locked":          attempts >= limit,
		"features":        features,
		"seenCount":       v.SeenCount(),
		"displayMS":       s.displayMS(),
	}
	if res, ok := v.Result(); ok {
		data["result"] = res
	}
	if lit {
		title := highlighted
		if f, ok := s.Catalog.SecurityFeature(highlighted); ok {
			title = f.Title
		}
		data["highlighted"] = title
	}
	s.render(w, r, "pages/login_safe.html", data)
}

func (s *Server) handleLoginSafeSubmit(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.SafeLoginView](s, w, r, safeLoginPath)
	if !ok {
		return
	}

	res, err := s.SafeLoginService.Login(r.Context(),
		v,
		r.FormValue("csrf_token"),
		r.FormValue("username"),
		r.FormValue("password"),
	)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("safe login: %s", res.Outcome)
	redirectToView(w, r, safeLoginPath, v)
}

func (s *Server) handleLoginSafeXSSTest(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.SafeLoginView](s, w, r, safeLoginPath)
	if !ok {
		return
	}
	s.SafeLoginService.InsertXSSTest(v)
	redirectToView(w, r, safeLoginPath, v)
}

func (s *Server) handleLoginSafeSimulate(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.SafeLoginView](s, w, r, safeLoginPath)
	if !ok {
		return
	}
	n, err := s.SafeLoginService.SimulateAttempt(r.Context(), v)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("simulated attempt, now %d", n)
	redirectToView(w, r, safeLoginPath, v)
}

func (s *Server) handleLoginSafeReset(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.SafeLoginView](s, w, r, safeLoginPath)
	if !ok {
		return
	}
	if err := s.SafeLoginService.ResetAttempts(r.Context(), v); err != nil {
		handleError(w, r, err)
		return
	}
	v.ClearResult()
	redirectToView(w, r, safeLoginPath, v)
}

func (s *Server) handleLoginSafeHighlightDismiss(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.SafeLoginView](s, w, r, safeLoginPath)
	if !ok {
		return
	}
	v.DismissHighlight()
	redirectToView(w, r, safeLoginPath, v)
}
