// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"errors"
	"sync"
	"time"

	"github.com/reelpick/reelpick/internal/models"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
)

var (
	// ErrSearchInProgress is returned by Begin while another search runs.
	ErrSearchInProgress = errors.New("a search is already running")

	// ErrSearchNotFound is returned for unknown search IDs.
	ErrSearchNotFound = errors.New("search not found")
)

// SearchRun is the server-side state of one phase-one run.
type SearchRun struct {
	mu sync.RWMutex

	id        string
	request   models.SearchRequest
	prefs     scoring.Preferences
	config    genetic.Config
	startedAt time.Time

	state      string
	finishedAt time.Time
	progress   *genetic.GenerationStats
	result     *genetic.Result
	err        error
	reportID   string
}

// observe records the latest generation. It is used as a genetic.Observer.
func (s *SearchRun) observe(st genetic.GenerationStats) {
	s.mu.Lock()
	s.progress = &st
	s.mu.Unlock()
}

// Result returns the finished population, or nil while running.
func (s *SearchRun) Result() (*genetic.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.err
}

// State returns the current state name.
func (s *SearchRun) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SearchRun) setReport(id string) {
	s.mu.Lock()
	s.reportID = id
	s.state = models.SearchReranked
	s.mu.Unlock()
}

// Status renders the wire view.
func (s *SearchRun) Status() models.SearchStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := models.SearchStatus{
		SearchID:  s.id,
		State:     s.state,
		StartedAt: s.startedAt,
		ReportID:  s.reportID,
	}
	if s.progress != nil {
		p := *s.progress
		st.Progress = &p
	}
	if !s.finishedAt.IsZero() {
		t := s.finishedAt
		st.FinishedAt = &t
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	if s.result != nil {
		st.Generations = s.result.Generations
		st.Evaluations = s.result.Evaluations
		st.Stagnated = s.result.Stagnated
		st.Population = models.NewIndividuals(s.result.Population)
	}
	return st
}

// Searches tracks searches by ID and allows one to run at a time. Finished
// searches are kept until more than limit have accumulated; the oldest are
// evicted first.
type Searches struct {
	mu     sync.Mutex
	byID   map[string]*SearchRun
	order  []string
	active string
	limit  int
	now    func() time.Time
}

// NewSearches creates a registry keeping at most limit finished searches.
func NewSearches(limit int) *Searches {
	if limit <= 0 {
		limit = 32
	}
	return &Searches{
		byID:  make(map[string]*SearchRun),
		limit: limit,
		now:   time.Now,
	}
}

// Begin registers a running search. It fails with ErrSearchInProgress when
// another search has not finished.
//
//nolint:gocritic // hugeParam: req is copied into the registry on purpose
func (r *Searches) Begin(id string, req models.SearchRequest, cfg genetic.Config) (*SearchRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != "" {
		return nil, ErrSearchInProgress
	}

	s := &SearchRun{
		id:        id,
		request:   req,
		prefs:     req.Preferences(),
		config:    cfg,
		startedAt: r.now().UTC(),
		state:     models.SearchRunning,
	}
	r.byID[id] = s
	r.order = append(r.order, id)
	r.active = id
	r.evictLocked()
	return s, nil
}

// Abort forgets a search that never started.
func (r *Searches) Abort(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.active == id {
		r.active = ""
	}
}

// Finish stores the outcome of s and releases the running slot.
func (r *Searches) Finish(s *SearchRun, res *genetic.Result, err error) {
	s.mu.Lock()
	s.result, s.err = res, err
	s.finishedAt = r.now().UTC()
	if err != nil {
		s.state = models.SearchFailed
	} else {
		s.state = models.SearchDone
	}
	s.mu.Unlock()

	r.mu.Lock()
	if r.active == s.id {
		r.active = ""
	}
	r.evictLocked()
	r.mu.Unlock()
}

// Get returns the search with id.
func (r *Searches) Get(id string) (*SearchRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, ErrSearchNotFound
	}
	return s, nil
}

// Active returns the ID of the running search, or "".
func (r *Searches) Active() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Len returns the number of tracked searches.
func (r *Searches) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *Searches) evictLocked() {
	for len(r.order) > r.limit {
		oldest := r.order[0]
		if oldest == r.active {
			return
		}
		r.order = r.order[1:]
		delete(r.byID, oldest)
	}
}
