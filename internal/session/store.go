package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind names the page a view instance belongs to.
type Kind string

const (
	KindLearn       Kind = "learn"
	KindSafeLogin   Kind = "login-safe"
	KindUnsafeLogin Kind = "login-unsafe"
)

// View is the server-side state of one page mount.
type View interface {
	ID() string
	Kind() Kind
	// Close releases timers. The view is not used afterwards.
	Close()
}

// Default mount limits.
const (
	DefaultViewsPerOwner = 8
	DefaultMaxViews      = 10000
)

type entry struct {
	view     View
	owner    string
	seq      uint64
	lastSeen time.Time
}

// Store holds live views. Views are private to the browser session that
// mounted them and are swept once idle for longer than the TTL. Mounting
// past a limit evicts the least recently used views first.
type Store struct {
	mu       sync.Mutex
	views    map[string]*entry
	removed  []string
	seq      uint64
	ttl      time.Duration
	perOwner int
	maxViews int
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithLimits caps live views per browser session and page, and in total.
// Values <= 0 keep the defaults.
func WithLimits(perOwner, maxViews int) StoreOption {
	return func(s *Store) {
		if perOwner > 0 {
			s.perOwner = perOwner
		}
		if maxViews > 0 {
			s.maxViews = maxViews
		}
	}
}

func NewStore(ttl time.Duration, opts ...StoreOption) *Store {
	s := &Store{
		views:    make(map[string]*entry),
		ttl:      ttl,
		perOwner: DefaultViewsPerOwner,
		maxViews: DefaultMaxViews,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount creates a fresh view for owner, evicting older views that push the
// store over its limits.
func Mount[V View](s *Store, owner string, build func(id string) V) V {
	v := build(uuid.NewString())
	s.mu.Lock()
	s.seq++
	s.views[v.ID()] = &entry{view: v, owner: owner, seq: s.seq, lastSeen: s.now()}
	victims := s.overflowLocked(owner, v.Kind(), v.ID())
	s.mu.Unlock()

	for _, id := range victims {
		s.Remove(id)
	}
	return v
}

// overflowLocked picks the views to evict after mounting keep.
func (s *Store) overflowLocked(owner string, kind Kind, keep string) []string {
	var same, others []*entry
	for id, e := range s.views {
		if id == keep {
			continue
		}
		if e.owner == owner && e.view.Kind() == kind {
			same = append(same, e)
		} else {
			others = append(others, e)
		}
	}

	var victims []*entry
	if extra := len(same) + 1 - s.perOwner; extra > 0 {
		sortLRU(same)
		victims = append(victims, same[:extra]...)
		same = same[extra:]
	}
	if extra := len(s.views) - len(victims) - s.maxViews; extra > 0 {
		rest := append(others, same...)
		sortLRU(rest)
		if extra > len(rest) {
			extra = len(rest)
		}
		victims = append(victims, rest[:extra]...)
	}

	ids := make([]string, 0, len(victims))
	for _, e := range victims {
		ids = append(ids, e.view.ID())
	}
	return ids
}

func sortLRU(entries []*entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].lastSeen.Equal(entries[j].lastSeen) {
			return entries[i].lastSeen.Before(entries[j].lastSeen)
		}
		return entries[i].seq < entries[j].seq
	})
}

// Lookup returns the view with id if owner mounted it and it has type V.
// A hit refreshes the idle timer.
func Lookup[V View](s *Store, owner, id string) (V, bool) {
	var zero V
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.views[id]
	if !ok || e.owner != owner {
		return zero, false
	}
	v, ok := e.view.(V)
	if !ok {
		return zero, false
	}
	e.lastSeen = s.now()
	return v, true
}

// Remove closes and forgets a view. The next Sweep reports its id.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	e, ok := s.views[id]
	if ok {
		delete(s.views, id)
		s.removed = append(s.removed, id)
	}
	s.mu.Unlock()
	if ok {
		e.view.Close()
	}
	return ok
}

// Sweep closes every view idle since before now-TTL. It returns their ids
// together with the views removed since the previous sweep.
func (s *Store) Sweep(now time.Time) []string {
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	var expired []View
	for id, e := range s.views {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.view)
			delete(s.views, id)
		}
	}
	ids := s.removed
	s.removed = nil
	s.mu.Unlock()

	for _, v := range expired {
		v.Close()
		ids = append(ids, v.ID())
	}
	sort.Strings(ids)
	return ids
}

// Len is the number of live views.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Close tears down every view.
func (s *Store) Close() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*entry)
	s.mu.Unlock()
	for _, e := range views {
		e.view.Close()
	}
}
