package worker

import "time"

// ViewSweeper is the part of the view store the sweep job needs.
// It keeps this package free of the session package.
type ViewSweeper interface {
	Sweep(now time.Time) []string
	Len() int
}
