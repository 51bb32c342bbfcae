package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/loginlab/internal/errors"
)

type navLink struct {
	Path    string
	Label   string
	Current bool
}

type navigation struct {
	Links []navLink
	Prev  *navLink
	Next  *navLink
}

// routeOrder is the suggested path through the site.
var routeOrder = []navLink{
	{Path: "/", Label: "Home"},
	{Path: "/learn", Label: "Learn"},
	{Path: "/login-safe", Label: "Safe login"},
	{Path: "/login-unsafe", Label: "Unsafe login"},
	{Path: "/compare", Label: "Compare"},
}

func navigationFor(path string) navigation {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	nav := navigation{Links: make([]navLink, len(routeOrder))}
	for i, link := range routeOrder {
		link.Current = link.Path == path
		nav.Links[i] = link
		if !link.Current {
			continue
		}
		if i > 0 {
			prev := routeOrder[i-1]
			nav.Prev = &prev
		}
		if i < len(routeOrder)-1 {
			next := routeOrder[i+1]
			nav.Next = &next
		}
	}
	return nav
}

func formInt(r *http.Request, field string) (int, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return 0, errors.NewBadRequestError("missing field: " + field)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError(field, "must be a number")
	}
	return n, nil
}
