package api

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/vytor/loginlab/internal/content"
	"github.com/vytor/loginlab/internal/db"
	"github.com/vytor/loginlab/internal/lesson"
	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/metrics"
	"github.com/vytor/loginlab/internal/notify"
	"github.com/vytor/loginlab/internal/services"
	"github.com/vytor/loginlab/internal/session"
)

type Server struct {
	DB                 *db.DB
	Catalog            *content.Catalog
	Sessions           *session.Manager
	Views              *session.Store
	SafeLoginService   services.SafeLoginService
	UnsafeLoginService services.UnsafeLoginService
	Templates          *template.Template
	AchievementDisplay time.Duration
	// AfterFunc schedules notification dismissals. Nil uses the runtime timer.
	AfterFunc notify.AfterFunc
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["nav"]; !ok {
		data["nav"] = navigationFor(r.URL.Path)
	}

	log := logger.FromContext(r.Context())
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) displayMS() int64 {
	d := s.AchievementDisplay
	if d <= 0 {
		d = notify.DefaultDisplay
	}
	return d.Milliseconds()
}

func (s *Server) mountLearn(ctx context.Context, owner string) *session.LearnView {
	v := session.Mount(s.Views, owner, func(id string) *session.LearnView {
		log := logger.Default().WithField("view", id)
		return session.NewLearnView(id, lesson.Options{
			Display:   s.AchievementDisplay,
			AfterFunc: s.AfterFunc,
			OnAchievement: func(a lesson.Achievement) {
				metrics.Achievements.WithLabelValues(string(a.Kind)).Inc()
				log.Info("achievement unlocked: %s", a.Title)
			},
		})
	})
	s.viewMounted(ctx, v)
	return v
}

func (s *Server) mountSafeLogin(ctx context.Context, owner string) *session.SafeLoginView {
	v := session.Mount(s.Views, owner, func(id string) *session.SafeLoginView {
		return session.NewSafeLoginView(id, s.AchievementDisplay, s.AfterFunc)
	})
	s.viewMounted(ctx, v)
	return v
}

func (s *Server) mountUnsafeLogin(ctx context.Context, owner string) *session.UnsafeLoginView {
	v := session.Mount(s.Views, owner, session.NewUnsafeLoginView)
	s.viewMounted(ctx, v)
	return v
}

func (s *Server) viewMounted(ctx context.Context, v session.View) {
	metrics.ViewsMounted.WithLabelValues(string(v.Kind())).Inc()
	metrics.ActiveViews.Set(float64(s.Views.Len()))
	logger.FromContext(ctx).Debug("mounted %s view %s", v.Kind(), v.ID())
}

// pageView returns the view named by the ?view= query parameter, or mounts a
// fresh one when the id is missing, expired or belongs to someone else.
func pageView[V session.View](s *Server, r *http.Request, mount func(context.Context, string) V) V {
	owner := sessionFromContext(r.Context())
	if v, ok := session.Lookup[V](s.Views, owner, r.URL.Query().Get("view")); ok {
		return v
	}
	return mount(r.Context(), owner)
}

// actionView resolves the view a form was posted from. An unknown view sends
// the browser back to a fresh mount of path.
func actionView[V session.View](s *Server, w http.ResponseWriter, r *http.Request, path string) (V, bool) {
	id := r.FormValue("view")
	v, ok := session.Lookup[V](s.Views, sessionFromContext(r.Context()), id)
	if !ok {
		logger.FromContext(r.Context()).Warn("unknown view %q, remounting %s", id, path)
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
	return v, ok
}

func redirectToView(w http.ResponseWriter, r *http.Request, path string, v session.View) {
	http.Redirect(w, r, path+"?view="+url.QueryEscape(v.ID()), http.StatusSeeOther)
}
