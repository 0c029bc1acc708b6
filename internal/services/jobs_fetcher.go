package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-finder/internal/clients/empllo"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/events"
	"github.com/maxaizer/job-finder/internal/logger"
	"github.com/maxaizer/job-finder/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"slices"
	"sync"
	"time"
)

type FetchStatus string

const (
	FetchIdle    FetchStatus = "idle"
	FetchLoading FetchStatus = "loading"
	FetchFailed  FetchStatus = "failed"
	FetchLoaded  FetchStatus = "loaded"
)

const FetchFailedMessage = "Failed to load jobs"

// ErrFetchDiscarded is returned when a response arrives after a newer one was
// already applied or after the fetcher was closed.
var ErrFetchDiscarded = errors.New("fetch result discarded")

type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string {
	return "failed to load jobs: " + e.Cause.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

type FetchState struct {
	Status   FetchStatus
	Error    string
	Jobs     []entities.Job
	InFlight int
}

func (s FetchState) Loading() bool {
	return s.InFlight > 0
}

type jobsFeed interface {
	GetJobs(ctx context.Context) ([]empllo.JobPosting, error)
}

type JobsFetcher struct {
	mu          sync.Mutex
	bus         EventBus.Bus
	feed        jobsFeed
	ids         IDGenerator
	issued      uint64
	applied     uint64
	inFlight    int
	lastOutcome FetchStatus
	errMessage  string
	jobs        []entities.Job
	closed      bool
}

func NewJobsFetcher(bus EventBus.Bus, feed jobsFeed, ids IDGenerator) *JobsFetcher {
	return &JobsFetcher{bus: bus, feed: feed, ids: ids, lastOutcome: FetchIdle}
}

// Fetch loads the whole feed and replaces the current collection with it.
// On failure the previous collection stays in place and the state carries an error message.
func (f *JobsFetcher) Fetch(ctx context.Context) ([]entities.Job, error) {

	seq, ok := f.begin()
	if !ok {
		return nil, ErrFetchDiscarded
	}

	start := time.Now()
	postings, err := f.feed.GetJobs(ctx)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.Canceled) {
			f.discard()
			metrics.FetchesCounter.WithLabelValues("discarded").Inc()
			return nil, ErrFetchDiscarded
		}
		return nil, f.fail(seq, err)
	}

	return f.apply(seq, assignIdentities(f.ids, postings))
}

func (f *JobsFetcher) State() FetchState {
	f.mu.Lock()
	defer f.mu.Unlock()

	status := f.lastOutcome
	if f.inFlight > 0 {
		status = FetchLoading
	}

	return FetchState{
		Status:   status,
		Error:    f.errMessage,
		Jobs:     slices.Clone(f.jobs),
		InFlight: f.inFlight,
	}
}

func (f *JobsFetcher) Jobs() []entities.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.jobs)
}

// Close makes every later response a no-op. Used when the owning session ends.
func (f *JobsFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *JobsFetcher) begin() (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, false
	}

	f.issued++
	f.inFlight++
	f.errMessage = ""
	return f.issued, true
}

func (f *JobsFetcher) discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
}

func (f *JobsFetcher) isOutdated(seq uint64) bool {
	return f.closed || seq < f.applied
}

func (f *JobsFetcher) fail(seq uint64, cause error) error {

	f.mu.Lock()
	f.inFlight--
	if f.isOutdated(seq) {
		f.mu.Unlock()
		metrics.FetchesCounter.WithLabelValues("discarded").Inc()
		log.Debugf("discarded failed fetch #%d: %v", seq, cause)
		return ErrFetchDiscarded
	}
	f.applied = seq
	f.lastOutcome = FetchFailed
	f.errMessage = FetchFailedMessage
	f.mu.Unlock()

	metrics.FetchesCounter.WithLabelValues("failed").Inc()
	log.WithField(logger.ErrorTypeField, logger.ErrorTypeFeedApi).Errorf("failed to fetch jobs: %v", cause)

	f.bus.Publish(events.JobsFetchFailedTopic, events.JobsFetchFailed{
		Sequence: seq,
		Message:  FetchFailedMessage,
		Err:      cause,
	})
	return &FetchError{Cause: cause}
}

func (f *JobsFetcher) apply(seq uint64, jobs []entities.Job) ([]entities.Job, error) {

	f.mu.Lock()
	f.inFlight--
	if f.isOutdated(seq) {
		f.mu.Unlock()
		metrics.FetchesCounter.WithLabelValues("discarded").Inc()
		log.Debugf("discarded outdated fetch #%d", seq)
		return nil, ErrFetchDiscarded
	}
	f.applied = seq
	f.lastOutcome = FetchLoaded
	f.errMessage = ""
	f.jobs = jobs
	f.mu.Unlock()

	metrics.FetchesCounter.WithLabelValues("loaded").Inc()
	log.Infof("fetched %d jobs (fetch #%d)", len(jobs), seq)

	f.bus.Publish(events.JobsFetchedTopic, events.JobsFetched{Sequence: seq, Jobs: slices.Clone(jobs)})
	return slices.Clone(jobs), nil
}
