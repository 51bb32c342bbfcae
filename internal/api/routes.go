package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/loginlab/internal/metrics"
	"github.com/vytor/loginlab/web"
)

const requestTimeout = 15 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleHome)
		r.Get("/compare", s.handleCompare)

		r.Route("/learn", func(r chi.Router) {
			r.Get("/", s.handleLearn)
			r.Post("/tab", s.handleLearnTab)
			r.Post("/complete", s.handleLearnComplete)
			r.Post("/quiz/open", s.handleLearnQuizOpen)
			r.Post("/quiz/answer", s.handleLearnQuizAnswer)
			r.Post("/next", s.handleLearnNext)
			r.Post("/achievement/dismiss", s.handleLearnAchievementDismiss)
		})

		r.Route("/login-safe", func(r chi.Router) {
			r.Get("/", s.handleLoginSafe)
			r.Post("/login", s.handleLoginSafeSubmit)
			r.Post("/xss-test", s.handleLoginSafeXSSTest)
			r.Post("/attempts/simulate", s.handleLoginSafeSimulate)
			r.Post("/attempts/reset", s.handleLoginSafeReset)
			r.Post("/highlight/dismiss", s.handleLoginSafeHighlightDismiss)
		})

		r.Route("/login-unsafe", func(r chi.Router) {
			r.Get("/", s.handleLoginUnsafe)
			r.Post("/login", s.handleLoginUnsafeSubmit)
			r.Post("/scenario", s.handleLoginUnsafeScenario)
			r.Post("/step", s.handleLoginUnsafeStep)
			r.Post("/finish", s.handleLoginUnsafeFinish)
			r.Post("/modal/dismiss", s.handleLoginUnsafeModalDismiss)
		})
	})

	return r
}
