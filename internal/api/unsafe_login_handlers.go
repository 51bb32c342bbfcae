package api

import (
	"net/http"

	"github.com/vytor/loginlab/internal/attack"
	"github.com/vytor/loginlab/internal/errors"
	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/metrics"
	"github.com/vytor/loginlab/internal/session"
)

const unsafeLoginPath = "/login-unsafe"

func (s *Server) handleLoginUnsafe(w http.ResponseWriter, r *http.Request) {
	v := pageView(s, r, s.mountUnsafeLogin)
	c := v.Walkthrough

	accounts, err := s.UnsafeLoginService.Accounts(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	data := pageData{
		"title":       "Unsafe login",
		"viewID":      v.ID(),
		"form":        c.FormValues(),
		"walkthrough": c.IsWalkthroughActive(),
		"completed":   c.IsCompleted(),
		"stepIndex":   c.StepIndex(),
		"stepCount":   len(c.Steps()),
		"xssModal":    v.XSSModalOpen(),
		"accounts":    accounts,
	}
	if step, ok := c.CurrentStep(); ok {
		data["step"] = step
	}
	if res, ok := v.Result(); ok {
		data["result"] = res
	}
	s.render(w, r, "pages/login_unsafe.html", data)
}

func (s *Server) handleLoginUnsafeSubmit(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.UnsafeLoginView](s, w, r, unsafeLoginPath)
	if !ok {
		return
	}

	username, password := r.FormValue("username"), r.FormValue("password")
	v.Walkthrough.SetFormValues(username, password)

	res, err := s.UnsafeLoginService.Evaluate(r.Context(), username, password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	v.ApplyResult(res)
	logger.FromContext(r.Context()).Info("unsafe login: %s", res.Outcome)
	redirectToView(w, r, unsafeLoginPath, v)
}

func (s *Server) handleLoginUnsafeScenario(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.UnsafeLoginView](s, w, r, unsafeLoginPath)
	if !ok {
		return
	}
	scenario, ok := attack.ParseScenario(r.FormValue("scenario"))
	if !ok {
		handleError(w, r, errors.NewValidationError("scenario", "must be xss or sql"))
		return
	}
	if v.Walkthrough.StartScenario(scenario) {
		metrics.ScenariosStarted.WithLabelValues(string(scenario)).Inc()
		logger.FromContext(r.Context()).Info("started %s walkthrough", scenario)
	}
	redirectToView(w, r, unsafeLoginPath, v)
}

func (s *Server) handleLoginUnsafeStep(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.UnsafeLoginView](s, w, r, unsafeLoginPath)
	if !ok {
		return
	}
	v.Walkthrough.NextStep()
	redirectToView(w, r, unsafeLoginPath, v)
}

func (s *Server) handleLoginUnsafeFinish(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.UnsafeLoginView](s, w, r, unsafeLoginPath)
	if !ok {
		return
	}
	v.Walkthrough.FinishWalkthrough()
	redirectToView(w, r, unsafeLoginPath, v)
}

func (s *Server) handleLoginUnsafeModalDismiss(w http.ResponseWriter, r *http.Request) {
	v, ok := actionView[*session.UnsafeLoginView](s, w, r, unsafeLoginPath)
	if !ok {
		return
	}
	v.DismissXSSModal()
	redirectToView(w, r, unsafeLoginPath, v)
}
