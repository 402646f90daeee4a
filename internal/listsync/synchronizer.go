// Package listsync keeps the displayed list of issues and pull requests in
// step with the remote tracker.
//
// The displayed collection is ordered and never holds two items with the same
// key. Filter toggles repopulate it at once from a local cache and then fetch
// the full set in the background; completed fetches are handed back to the
// caller on Results and must be applied with Apply from the same goroutine
// that drives the toggles (the UI loop).
package listsync

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"shipit/internal/model"
)

var logger = log.WithField("package", "listsync")

// Fetcher is the part of the remote repository the synchronizer needs.
type Fetcher interface {
	ListIssues(ctx context.Context, state model.State) ([]*model.Issue, error)
	ListPullRequests(ctx context.Context) ([]*model.PullRequest, error)
}

// Class is a filterable group of items.
type Class int

const (
	OpenIssues Class = iota
	ClosedIssues
	PullRequests
)

func (c Class) String() string {
	switch c {
	case OpenIssues:
		return "open issues"
	case ClosedIssues:
		return "closed issues"
	case PullRequests:
		return "pull requests"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Matches reports whether it belongs to the class.
func (c Class) Matches(it model.Item) bool {
	switch c {
	case OpenIssues:
		return model.IsIssue(it) && model.IsOpen(it)
	case ClosedIssues:
		return model.IsIssue(it) && model.IsClosed(it)
	case PullRequests:
		return it.IsPullRequest()
	default:
		return false
	}
}

// ClassOf returns the class an item belongs to.
func ClassOf(it model.Item) Class {
	switch {
	case it.IsPullRequest():
		return PullRequests
	case model.IsClosed(it):
		return ClosedIssues
	default:
		return OpenIssues
	}
}

// Filters is the set of enabled classes.
type Filters struct {
	OpenIssues   bool
	ClosedIssues bool
	PullRequests bool
}

// Enabled reports whether c is enabled.
func (f Filters) Enabled(c Class) bool {
	switch c {
	case OpenIssues:
		return f.OpenIssues
	case ClosedIssues:
		return f.ClosedIssues
	case PullRequests:
		return f.PullRequests
	}
	return false
}

func (f *Filters) set(c Class, on bool) {
	switch c {
	case OpenIssues:
		f.OpenIssues = on
	case ClosedIssues:
		f.ClosedIssues = on
	case PullRequests:
		f.PullRequests = on
	}
}

// FetchResult is a completed background fetch.
type FetchResult struct {
	Class Class
	Items []model.Item
	Err   error
}

// Synchronizer owns the displayed collection.
type Synchronizer struct {
	fetcher Fetcher
	pool    *pool

	mu        sync.Mutex
	filters   Filters
	displayed *collection
	issues    *collection // open and closed issues seen so far
	pulls     *collection
	pending   int
	onChange  func([]model.Item)
}

// New starts a synchronizer backed by workers background fetchers.
func New(f Fetcher, workers int) *Synchronizer {
	return &Synchronizer{
		fetcher:   f,
		pool:      newPool(workers),
		displayed: newCollection(),
		issues:    newCollection(),
		pulls:     newCollection(),
	}
}

// OnChange registers the callback invoked once after every change to the
// displayed collection. It replaces any earlier callback.
func (s *Synchronizer) OnChange(fn func([]model.Item)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Results delivers completed fetches.
func (s *Synchronizer) Results() <-chan FetchResult {
	return s.pool.results
}

// Items returns a copy of the displayed collection.
func (s *Synchronizer) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed.snapshot()
}

// Filters returns the enabled classes.
func (s *Synchronizer) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Pending returns the number of fetches not yet applied.
func (s *Synchronizer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Synchronizer) ShowOpenIssues()   { s.show(OpenIssues) }
func (s *Synchronizer) ShowClosedIssues() { s.show(ClosedIssues) }
func (s *Synchronizer) ShowPullRequests() { s.show(PullRequests) }
func (s *Synchronizer) HideOpenIssues()   { s.hide(OpenIssues) }
func (s *Synchronizer) HideClosedIssues() { s.hide(ClosedIssues) }
func (s *Synchronizer) HidePullRequests() { s.hide(PullRequests) }

// Show enables c, shows the cached items of c right away and starts a fetch.
func (s *Synchronizer) Show(c Class) { s.show(c) }

// Hide disables c and removes its items from the displayed collection.
func (s *Synchronizer) Hide(c Class) { s.hide(c) }

func (s *Synchronizer) show(c Class) {
	s.mutate(func() {
		s.filters.set(c, true)
		n := s.displayed.merge(s.cacheFor(c).filter(c.Matches))
		logger.WithField("class", c).WithField("cached", n).Debug("showing cached items")
	})
	s.fetch(c)
}

func (s *Synchronizer) hide(c Class) {
	s.mutate(func() {
		s.filters.set(c, false)
		n := s.displayed.removeIf(c.Matches)
		logger.WithField("class", c).WithField("removed", n).Debug("hid items")
	})
}

// Refresh fetches every enabled class again without clearing anything.
func (s *Synchronizer) Refresh() {
	f := s.Filters()
	for _, c := range []Class{OpenIssues, ClosedIssues, PullRequests} {
		if f.Enabled(c) {
			s.fetch(c)
		}
	}
}

// Apply folds a completed fetch into the cache and, if its class is still
// enabled, into the displayed collection. Items already displayed are left
// where they are. A failed fetch changes nothing.
func (s *Synchronizer) Apply(r FetchResult) error {
	s.mu.Lock()
	if s.pending > 0 {
		s.pending--
	}
	if r.Err != nil {
		s.mu.Unlock()
		logger.WithField("class", r.Class).WithError(r.Err).Warn("fetch failed")
		return fmt.Errorf("fetch %s: %w", r.Class, r.Err)
	}
	s.mu.Unlock()

	s.mutate(func() {
		cache := s.cacheFor(r.Class)
		for _, it := range r.Items {
			if it != nil {
				cache.upsert(it)
			}
		}
		added := 0
		if s.filters.Enabled(r.Class) {
			var matching []model.Item
			for _, it := range r.Items {
				if it != nil && r.Class.Matches(it) {
					matching = append(matching, it)
				}
			}
			added = s.displayed.merge(matching)
		}
		logger.WithField("class", r.Class).WithField("fetched", len(r.Items)).WithField("added", added).Debug("applied fetch")
	})
	return nil
}

// Add records a newly created item and displays it if its class is enabled.
func (s *Synchronizer) Add(it model.Item) {
	s.mutate(func() {
		s.cacheFor(ClassOf(it)).upsert(it)
		if s.filters.Enabled(ClassOf(it)) {
			s.displayed.merge([]model.Item{it})
		}
	})
}

// Replace swaps in the authoritative copy of an item returned by the
// repository. A displayed item whose class is no longer enabled (for example
// an issue just closed while closed issues are hidden) is removed; an item
// that moved into an enabled class is appended.
func (s *Synchronizer) Replace(it model.Item) {
	s.mutate(func() {
		s.cacheFor(ClassOf(it)).upsert(it)
		if !s.filters.Enabled(ClassOf(it)) {
			key := it.Key()
			s.displayed.removeIf(func(x model.Item) bool { return x.Key() == key })
			return
		}
		if !s.displayed.replace(it) {
			s.displayed.merge([]model.Item{it})
		}
	})
}

// Close stops the background workers.
func (s *Synchronizer) Close() {
	s.pool.stop()
}

func (s *Synchronizer) fetch(c Class) {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()

	ok := s.pool.submit(job{class: c, run: func(ctx context.Context) ([]model.Item, error) {
		return s.load(ctx, c)
	}})
	if !ok {
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
		logger.WithField("class", c).Debug("fetch already queued")
		return
	}
	logger.WithField("class", c).Debug("fetch submitted")
}

func (s *Synchronizer) load(ctx context.Context, c Class) ([]model.Item, error) {
	switch c {
	case PullRequests:
		prs, err := s.fetcher.ListPullRequests(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]model.Item, len(prs))
		for i, pr := range prs {
			items[i] = pr
		}
		return items, nil
	default:
		state := model.StateOpen
		if c == ClosedIssues {
			state = model.StateClosed
		}
		issues, err := s.fetcher.ListIssues(ctx, state)
		if err != nil {
			return nil, err
		}
		items := make([]model.Item, len(issues))
		for i, is := range issues {
			items[i] = is
		}
		return items, nil
	}
}

func (s *Synchronizer) cacheFor(c Class) *collection {
	if c == PullRequests {
		return s.pulls
	}
	return s.issues
}

// mutate applies fn under the lock and then notifies the observer exactly
// once, outside the lock.
func (s *Synchronizer) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snapshot := s.displayed.snapshot()
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}
