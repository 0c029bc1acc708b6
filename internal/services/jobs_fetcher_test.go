package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-finder/internal/clients/empllo"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/events"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"sync"
	"testing"
	"time"
)

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) GetJobs(ctx context.Context) ([]empllo.JobPosting, error) {
	args := m.Called(ctx)
	postings, _ := args.Get(0).([]empllo.JobPosting)
	return postings, args.Error(1)
}

type feedResponse struct {
	postings []empllo.JobPosting
	err      error
}

// gatedFeed holds every call until the test answers it.
type gatedFeed struct {
	mu      sync.Mutex
	calls   []chan feedResponse
	started chan int
}

func newGatedFeed() *gatedFeed {
	return &gatedFeed{started: make(chan int, 10)}
}

func (g *gatedFeed) GetJobs(ctx context.Context) ([]empllo.JobPosting, error) {
	call := make(chan feedResponse, 1)
	g.mu.Lock()
	g.calls = append(g.calls, call)
	index := len(g.calls) - 1
	g.mu.Unlock()

	g.started <- index
	response := <-call
	return response.postings, response.err
}

func (g *gatedFeed) answer(index int, response feedResponse) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[index] <- response
}

func postingsWithTitles(titles ...string) []empllo.JobPosting {
	result := make([]empllo.JobPosting, 0, len(titles))
	for _, title := range titles {
		result = append(result, empllo.JobPosting{
			Title:        title,
			MainCategory: "Software Development",
			CompanyName:  "Acme Corp",
			JobType:      "Full-time",
		})
	}
	return result
}

func titlesOf(jobs []entities.Job) []string {
	result := make([]string, 0, len(jobs))
	for _, job := range jobs {
		result = append(result, job.Title)
	}
	return result
}

type fetchResult struct {
	jobs []entities.Job
	err  error
}

func fetchAsync(fetcher *JobsFetcher) <-chan fetchResult {
	done := make(chan fetchResult, 1)
	go func() {
		jobs, err := fetcher.Fetch(context.Background())
		done <- fetchResult{jobs, err}
	}()
	return done
}

func Test_JobsFetcher_Fetch_ShouldAssignUniqueIdsAndKeepFeedOrder(t *testing.T) {

	assert := assert.New(t)

	feed := &mockFeed{}
	feed.On("GetJobs", mock.Anything).Return(postingsWithTitles("Go developer", "Designer", "Go developer"), nil)

	fetcher := NewJobsFetcher(EventBus.New(), feed, NewSequenceGenerator("job-"))
	jobs, err := fetcher.Fetch(context.Background())

	assert.NoError(err)
	assert.Equal([]string{"Go developer", "Designer", "Go developer"}, titlesOf(jobs))
	assert.Equal("job-1", jobs[0].ID)
	assert.Equal("job-2", jobs[1].ID)
	assert.Equal("job-3", jobs[2].ID)

	state := fetcher.State()
	assert.Equal(FetchLoaded, state.Status)
	assert.Empty(state.Error)
	assert.False(state.Loading())
	assert.Equal(jobs, state.Jobs)
}

func Test_JobsFetcher_WhenRefetched_ShouldMintNewIds(t *testing.T) {

	assert := assert.New(t)

	feed := &mockFeed{}
	feed.On("GetJobs", mock.Anything).Return(postingsWithTitles("Go developer"), nil)

	fetcher := NewJobsFetcher(EventBus.New(), feed, UUIDGenerator{})
	first, err := fetcher.Fetch(context.Background())
	assert.NoError(err)
	second, err := fetcher.Fetch(context.Background())
	assert.NoError(err)

	assert.NotEqual(first[0].ID, second[0].ID)
	assert.Equal(second, fetcher.Jobs())
	feed.AssertNumberOfCalls(t, "GetJobs", 2)
}

func Test_JobsFetcher_WhenFeedIsEmpty_ShouldLoadEmptyCollection(t *testing.T) {

	assert := assert.New(t)

	feed := &mockFeed{}
	feed.On("GetJobs", mock.Anything).Return([]empllo.JobPosting{}, nil)

	fetcher := NewJobsFetcher(EventBus.New(), feed, UUIDGenerator{})
	jobs, err := fetcher.Fetch(context.Background())

	assert.NoError(err)
	assert.Empty(jobs)
	assert.Equal(FetchLoaded, fetcher.State().Status)
}

func Test_JobsFetcher_WhenFetchFails_ShouldKeepPreviousJobsAndReportError(t *testing.T) {

	assert := assert.New(t)

	feed := &mockFeed{}
	feed.On("GetJobs", mock.Anything).Return(postingsWithTitles("Go developer", "Designer"), nil).Once()
	feed.On("GetJobs", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	bus := EventBus.New()
	var failures []events.JobsFetchFailed
	assert.NoError(bus.Subscribe(events.JobsFetchFailedTopic, func(event events.JobsFetchFailed) {
		failures = append(failures, event)
	}))

	fetcher := NewJobsFetcher(bus, feed, UUIDGenerator{})
	loaded, err := fetcher.Fetch(context.Background())
	assert.NoError(err)

	_, err = fetcher.Fetch(context.Background())
	var fetchErr *FetchError
	assert.True(errors.As(err, &fetchErr))
	assert.EqualError(fetchErr.Cause, "connection refused")

	state := fetcher.State()
	assert.Equal(FetchFailed, state.Status)
	assert.Equal(FetchFailedMessage, state.Error)
	assert.Equal(loaded, state.Jobs)

	assert.Len(failures, 1)
	assert.Equal(uint64(2), failures[0].Sequence)
	assert.Equal(FetchFailedMessage, failures[0].Message)
}

func Test_JobsFetcher_WhenRetriedAfterFailure_ShouldClearError(t *testing.T) {

	assert := assert.New(t)

	feed := &mockFeed{}
	feed.On("GetJobs", mock.Anything).Return(nil, errors.New("timeout")).Once()
	feed.On("GetJobs", mock.Anything).Return(postingsWithTitles("Go developer"), nil).Once()

	fetcher := NewJobsFetcher(EventBus.New(), feed, UUIDGenerator{})
	_, err := fetcher.Fetch(context.Background())
	assert.Error(err)
	assert.Equal(FetchFailed, fetcher.State().Status)
	assert.Empty(fetcher.Jobs())

	_, err = fetcher.Fetch(context.Background())
	assert.NoError(err)
	state := fetcher.State()
	assert.Equal(FetchLoaded, state.Status)
	assert.Empty(state.Error)
	assert.Len(state.Jobs, 1)
}

func Test_JobsFetcher_WhileFetching_ShouldReportLoading(t *testing.T) {

	assert := assert.New(t)

	feed := newGatedFeed()
	fetcher := NewJobsFetcher(EventBus.New(), feed, UUIDGenerator{})
	assert.Equal(FetchIdle, fetcher.State().Status)

	done := fetchAsync(fetcher)
	<-feed.started

	state := fetcher.State()
	assert.True(state.Loading())
	assert.Equal(FetchLoading, state.Status)

	feed.answer(0, feedResponse{postings: postingsWithTitles("Go developer")})
	result := <-done
	assert.NoError(result.err)
	assert.False(fetcher.State().Loading())
}

func Test_JobsFetcher_WhenOlderResponseArrivesLast_ShouldDiscardIt(t *testing.T) {

	assert := assert.New(t)

	feed := newGatedFeed()
	bus := EventBus.New()
	var fetched []events.JobsFetched
	var mu sync.Mutex
	assert.NoError(bus.Subscribe(events.JobsFetchedTopic, func(event events.JobsFetched) {
		mu.Lock()
		defer mu.Unlock()
		fetched = append(fetched, event)
	}))

	fetcher := NewJobsFetcher(bus, feed, UUIDGenerator{})

	older := fetchAsync(fetcher)
	<-feed.started
	newer := fetchAsync(fetcher)
	<-feed.started

	feed.answer(1, feedResponse{postings: postingsWithTitles("Newer")})
	newerResult := <-newer
	assert.NoError(newerResult.err)

	feed.answer(0, feedResponse{postings: postingsWithTitles("Older")})
	olderResult := <-older
	assert.ErrorIs(olderResult.err, ErrFetchDiscarded)

	assert.Equal([]string{"Newer"}, titlesOf(fetcher.Jobs()))
	assert.Equal(FetchLoaded, fetcher.State().Status)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(fetched, 1)
	assert.Equal(uint64(2), fetched[0].Sequence)
}

func Test_JobsFetcher_WhenOlderFailureArrivesLast_ShouldNotReportError(t *testing.T) {

	assert := assert.New(t)

	feed := newGatedFeed()
	fetcher := NewJobsFetcher(EventBus.New(), feed, UUIDGenerator{})

	older := fetchAsync(fetcher)
	<-feed.started
	newer := fetchAsync(fetcher)
	<-feed.started

	feed.answer(1, feedResponse{postings: postingsWithTitles("Newer")})
	assert.NoError((<-newer).err)

	feed.answer(0, feedResponse{err: errors.New("timeout")})
	assert.ErrorIs((<-older).err, ErrFetchDiscarded)

	state := fetcher.State()
	assert.Equal(FetchLoaded, state.Status)
	assert.Empty(state.Error)
}

func Test_JobsFetcher_WhenClosedDuringFetch_ShouldDiscardResponse(t *testing.T) {

	assert := assert.New(t)

	feed := newGatedFeed()
	fetcher := NewJobsFetcher(EventBus.New(), feed, UUIDGenerator{})

	done := fetchAsync(fetcher)
	<-feed.started
	fetcher.Close()

	feed.answer(0, feedResponse{postings: postingsWithTitles("Go developer")})
	result := <-done

	assert.ErrorIs(result.err, ErrFetchDiscarded)
	assert.Empty(fetcher.Jobs())

	_, err := fetcher.Fetch(context.Background())
	assert.ErrorIs(err, ErrFetchDiscarded)
}

func Test_JobsFetcher_WhenContextCanceled_ShouldDiscardWithoutError(t *testing.T) {

	assert := assert.New(t)

	feed := &mockFeed{}
	feed.On("GetJobs", mock.Anything).Return(nil, errors.Wrap(context.Canceled, "request aborted"))

	fetcher := NewJobsFetcher(EventBus.New(), feed, UUIDGenerator{})
	_, err := fetcher.Fetch(context.Background())

	assert.ErrorIs(err, ErrFetchDiscarded)
	state := fetcher.State()
	assert.Equal(FetchIdle, state.Status)
	assert.Empty(state.Error)
}

func Test_JobsFetcher_WhenFetchedConcurrently_ShouldEndWithOneOfTheResponses(t *testing.T) {

	assert := assert.New(t)

	feed := &mockFeed{}
	feed.On("GetJobs", mock.Anything).Return(postingsWithTitles("Go developer"), nil).
		After(5 * time.Millisecond)

	fetcher := NewJobsFetcher(EventBus.New(), feed, UUIDGenerator{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = fetcher.Fetch(context.Background())
		}()
	}
	wg.Wait()

	state := fetcher.State()
	assert.Equal(FetchLoaded, state.Status)
	assert.Zero(state.InFlight)
	assert.Len(state.Jobs, 1)
}

func Test_JobsFetcher_WhenOlderFailureThenNewerSuccess_ShouldClearError(t *testing.T) {

	assert := assert.New(t)

	feed := newGatedFeed()
	fetcher := NewJobsFetcher(EventBus.New(), feed, UUIDGenerator{})

	older := fetchAsync(fetcher)
	<-feed.started
	newer := fetchAsync(fetcher)
	<-feed.started

	feed.answer(0, feedResponse{err: errors.New("timeout")})
	var fetchErr *FetchError
	assert.True(errors.As((<-older).err, &fetchErr))

	feed.answer(1, feedResponse{postings: postingsWithTitles("Fresh")})
	assert.NoError((<-newer).err)

	state := fetcher.State()
	assert.Equal(FetchLoaded, state.Status)
	assert.Empty(state.Error)
	assert.Equal([]string{"Fresh"}, titlesOf(state.Jobs))
}
