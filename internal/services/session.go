package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-finder/internal/entities"
	"time"
)

// Session holds the state of one user: the fetched feed, its filtered view,
// the saved set and the saved-list screen. Components talk through the session's own bus.
type Session struct {
	bus          EventBus.Bus
	Jobs         *JobsFetcher
	View         *JobsView
	Saved        *SavedJobs
	SavedList    *SavedJobsMirror
	Applications *ApplicationSubmitter
}

func NewSession(feed jobsFeed, ids IDGenerator, confirmationTTL time.Duration) (*Session, error) {

	bus := EventBus.New()
	saved := NewSavedJobs(bus, confirmationTTL)

	view, err := NewJobsView(bus)
	if err != nil {
		return nil, err
	}

	savedList, err := NewSavedJobsMirror(bus, saved)
	if err != nil {
		return nil, err
	}

	return &Session{
		bus:          bus,
		Jobs:         NewJobsFetcher(bus, feed, ids),
		View:         view,
		Saved:        saved,
		SavedList:    savedList,
		Applications: NewApplicationSubmitter(bus),
	}, nil
}

func (s *Session) Bus() EventBus.Bus {
	return s.bus
}

func (s *Session) Refresh(ctx context.Context) error {
	_, err := s.Jobs.Fetch(ctx)
	return err
}

// ToggleSave toggles a job of the current collection by id.
func (s *Session) ToggleSave(jobID string) (SaveOutcome, ConfirmationToken, error) {
	job, found := entities.FindJob(s.Jobs.Jobs(), jobID)
	if !found {
		return Saved, "", ErrStaleReference
	}
	outcome, token := s.Saved.Toggle(job)
	return outcome, token, nil
}

func (s *Session) Close() {
	s.Jobs.Close()
}
