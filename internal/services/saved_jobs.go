package services

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/events"
	"github.com/maxaizer/job-finder/internal/metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

type SaveOutcome int

const (
	Saved SaveOutcome = iota
	UnsaveRequested
	Unsaved
)

func (o SaveOutcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case UnsaveRequested:
		return "unsave_requested"
	case Unsaved:
		return "unsaved"
	default:
		return "unknown"
	}
}

var (
	// ErrStaleReference means the job is not (or no longer) part of the current state.
	// Callers treat it as a no-op.
	ErrStaleReference      = errors.New("job is not part of the current state")
	ErrUnknownConfirmation = errors.New("unknown or expired confirmation")
)

// SavedJobs is the saved set shared by every screen of a session. Membership is
// by job id. Every mutation publishes SavedJobsChanged after the lock is released.
type SavedJobs struct {
	mu      sync.Mutex
	bus     EventBus.Bus
	jobs    map[string]entities.Job
	order   []string
	pending *pendingRemovals
}

func NewSavedJobs(bus EventBus.Bus, confirmationTTL time.Duration) *SavedJobs {
	return &SavedJobs{
		bus:     bus,
		jobs:    make(map[string]entities.Job),
		pending: newPendingRemovals(confirmationTTL),
	}
}

// Toggle saves an unsaved job right away. For a saved job it only opens a
// removal request; the job stays saved until ConfirmRemoval is called with the token.
func (s *SavedJobs) Toggle(job entities.Job) (SaveOutcome, ConfirmationToken) {

	s.mu.Lock()
	if _, saved := s.jobs[job.ID]; saved {
		s.mu.Unlock()
		metrics.SaveTogglesCounter.WithLabelValues(UnsaveRequested.String()).Inc()
		return UnsaveRequested, s.pending.add(job.ID)
	}
	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	total := len(s.order)
	s.mu.Unlock()

	metrics.SaveTogglesCounter.WithLabelValues(Saved.String()).Inc()
	log.Debugf("job %s saved, total: %d", job.ID, total)
	s.bus.Publish(events.SavedJobsChangedTopic, events.SavedJobsChanged{Job: job, Saved: true, Total: total})
	return Saved, ""
}

func (s *SavedJobs) RequestRemoval(jobID string) (ConfirmationToken, error) {
	if !s.IsSaved(jobID) {
		return "", ErrStaleReference
	}
	metrics.SaveTogglesCounter.WithLabelValues(UnsaveRequested.String()).Inc()
	return s.pending.add(jobID), nil
}

// ConfirmRemoval completes a removal request. A job removed meanwhile by
// another screen still yields Unsaved.
func (s *SavedJobs) ConfirmRemoval(token ConfirmationToken) (SaveOutcome, error) {
	jobID, found := s.pending.take(token)
	if !found {
		return UnsaveRequested, ErrUnknownConfirmation
	}

	if err := s.Remove(jobID); err != nil && !errors.Is(err, ErrStaleReference) {
		return UnsaveRequested, err
	}
	return Unsaved, nil
}

// CancelRemoval leaves the saved set unchanged.
func (s *SavedJobs) CancelRemoval(token ConfirmationToken) {
	s.pending.drop(token)
}

func (s *SavedJobs) Remove(jobID string) error {

	s.mu.Lock()
	job, saved := s.jobs[jobID]
	if !saved {
		s.mu.Unlock()
		return ErrStaleReference
	}
	delete(s.jobs, jobID)
	s.order = lo.Without(s.order, jobID)
	total := len(s.order)
	s.mu.Unlock()

	metrics.SaveTogglesCounter.WithLabelValues(Unsaved.String()).Inc()
	log.Debugf("job %s unsaved, total: %d", jobID, total)
	s.bus.Publish(events.SavedJobsChangedTopic, events.SavedJobsChanged{Job: job, Saved: false, Total: total})
	return nil
}

func (s *SavedJobs) IsSaved(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, saved := s.jobs[jobID]
	return saved
}

// Jobs returns saved jobs in the order they were saved.
func (s *SavedJobs) Jobs() []entities.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Map(s.order, func(id string, _ int) entities.Job {
		return s.jobs[id]
	})
}

func (s *SavedJobs) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
