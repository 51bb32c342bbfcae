package api

import (
	"net/http"

	"github.com/vytor/loginlab/internal/logger"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debug("rendering home page")
	s.render(w, r, "pages/home.html", pageData{
		"title": "Home",
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debug("rendering compare page")
	s.render(w, r, "pages/compare.html", pageData{
		"title":    "Compare",
		"features": s.Catalog.CompareFeatures,
		"learned":  s.Catalog.Learned,
	})
}
