package services

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/events"
	"github.com/samber/lo"
	"slices"
	"strings"
	"sync"
)

// FilterByTitle keeps jobs whose title contains query, ignoring case.
// The input is never modified and source order is kept.
func FilterByTitle(jobs []entities.Job, query string) []entities.Job {
	if query == "" {
		return slices.Clone(jobs)
	}

	needle := strings.ToLower(query)
	return lo.Filter(jobs, func(job entities.Job, _ int) bool {
		return strings.Contains(strings.ToLower(job.Title), needle)
	})
}

// JobsView is the filtered list the browse screen renders. It is derived from
// the current collection and query and recomputed whenever either changes.
type JobsView struct {
	mu       sync.Mutex
	jobs     []entities.Job
	query    string
	filtered []entities.Job
	sequence uint64
}

func NewJobsView(bus EventBus.Bus) (*JobsView, error) {
	v := &JobsView{}
	if err := bus.Subscribe(events.JobsFetchedTopic, v.onJobsFetched); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *JobsView) SetJobs(jobs []entities.Job) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.jobs = slices.Clone(jobs)
	v.filtered = FilterByTitle(v.jobs, v.query)
}

func (v *JobsView) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
	v.filtered = FilterByTitle(v.jobs, v.query)
}

func (v *JobsView) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

func (v *JobsView) Filtered() []entities.Job {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.filtered)
}

// onJobsFetched ignores events not newer than the last one applied, since
// concurrent fetches may publish out of order.
func (v *JobsView) onJobsFetched(event events.JobsFetched) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if event.Sequence <= v.sequence {
		return
	}
	v.sequence = event.Sequence
	v.jobs = slices.Clone(event.Jobs)
	v.filtered = FilterByTitle(v.jobs, v.query)
}
