package services

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/events"
	"github.com/samber/lo"
	"slices"
	"sync"
)

// SavedJobsMirror is the saved-list screen's local copy of the saved set.
// It resyncs on focus and after every change of the set.
type SavedJobsMirror struct {
	mu    sync.Mutex
	store *SavedJobs
	jobs  []entities.Job
}

func NewSavedJobsMirror(bus EventBus.Bus, store *SavedJobs) (*SavedJobsMirror, error) {
	m := &SavedJobsMirror{store: store}
	m.Resync()

	if err := bus.Subscribe(events.SavedJobsChangedTopic, m.onSavedJobsChanged); err != nil {
		return nil, err
	}
	return m, nil
}

// Focus is called when the screen is shown.
func (m *SavedJobsMirror) Focus() []entities.Job {
	m.Resync()
	return m.Jobs()
}

func (m *SavedJobsMirror) Resync() {
	jobs := m.store.Jobs()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = jobs
}

func (m *SavedJobsMirror) Jobs() []entities.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.jobs)
}

// Remove writes through to the saved set first. If the job was already gone
// the local copy is still cleaned and ErrStaleReference is returned.
func (m *SavedJobsMirror) Remove(jobID string) error {
	err := m.store.Remove(jobID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = lo.Reject(m.jobs, func(job entities.Job, _ int) bool {
		return job.ID == jobID
	})
	return err
}

func (m *SavedJobsMirror) onSavedJobsChanged(_ events.SavedJobsChanged) {
	m.Resync()
}
